package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/versions/internal/version"
)

// listResult is the --json output of `versions list`.
type listResult struct {
	Mirror   string            `json:"mirror"`
	Versions map[string]string `json:"versions"`
}

func newListCmd(g *globalOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every entry in the manifest",
		Long: `Print every identifier and version in the manifest, sorted by name.

With --from, only that URL is fetched and no fallback happens.

Examples:
  versions list
  versions list --from https://example.com/versions.toml.gz`,
		Args: wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.newResolver(cmd)
			if err != nil {
				return err
			}

			var m *version.Manifest
			if from != "" {
				m, err = r.GetVersions(cmd.Context(), from)
			} else {
				m, err = r.Resolve(cmd.Context())
			}
			if err != nil {
				return &exitError{code: ExitNetwork, err: err}
			}

			names := m.Names()
			if g.jsonOut {
				res := listResult{Mirror: m.Source(), Versions: make(map[string]string, len(names))}
				for _, name := range names {
					v, _ := m.Get(name)
					res.Versions[name] = v.String()
				}
				return printJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				v, _ := m.Get(name)
				fmt.Fprintf(out, "%-30s  %s\n", name, v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "fetch only this manifest URL")
	return cmd
}
