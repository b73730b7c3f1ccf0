package version

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Manifest is an immutable identifier -> version mapping decoded from a
// single mirror. A Manifest is never partially populated.
type Manifest struct {
	source  string
	entries map[string]*Version
}

// ParseManifest decodes a manifest document. The document must be a flat
// TOML table whose values are all strict semantic-version strings:
//
//	test  = "0.1.0"
//	alpha = "0.1.2-alpha"
//
// Parsing is all-or-nothing; one bad entry rejects the whole document.
// Errors are decode-class ResolverErrors matching ErrMalformedManifest.
func ParseManifest(text []byte) (*Manifest, error) {
	return parseManifest("", text)
}

func parseManifest(source string, text []byte) (*Manifest, error) {
	var raw map[string]string
	if _, err := toml.NewDecoder(bytes.NewReader(text)).Decode(&raw); err != nil {
		return nil, decodeError(source, "manifest is not a flat table of strings", err)
	}

	entries := make(map[string]*Version, len(raw))
	for name, s := range raw {
		v, err := ParseVersion(s)
		if err != nil {
			return nil, decodeError(source, fmt.Sprintf("invalid version for %q", name), err)
		}
		entries[name] = v
	}

	return &Manifest{source: source, entries: entries}, nil
}

// NewManifest builds a Manifest from already-parsed versions. The map is
// copied; later changes to m do not affect the Manifest.
func NewManifest(m map[string]*Version) *Manifest {
	entries := make(map[string]*Version, len(m))
	for k, v := range m {
		entries[k] = v
	}
	return &Manifest{entries: entries}
}

// Get returns the version recorded for identifier. Lookups are exact and
// case-sensitive; the empty string is an ordinary key.
func (m *Manifest) Get(identifier string) (*Version, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.entries[identifier]
	return v, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Names returns the identifiers in the manifest, sorted.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source returns the mirror URL the manifest was fetched from, or "" when
// it was parsed directly.
func (m *Manifest) Source() string {
	if m == nil {
		return ""
	}
	return m.source
}
