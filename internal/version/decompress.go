package version

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	lzip "github.com/sorairolake/lzip-go"
	"github.com/ulikunitz/xz"
)

// Compression identifies how a mirror encodes the manifest body.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionXz   Compression = "xz"
	CompressionLzip Compression = "lzip"
)

// DetectCompression infers the compression of a mirror from its URL path
// suffix (.gz, .zst, .xz, .lz). Query strings and fragments are ignored.
func DetectCompression(rawURL string) Compression {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".gz":
		return CompressionGzip
	case ".zst":
		return CompressionZstd
	case ".xz":
		return CompressionXz
	case ".lz":
		return CompressionLzip
	default:
		return CompressionNone
	}
}

// decompress returns the decoded body, reading at most limit bytes of
// output. Bodies that expand beyond limit are rejected.
func decompress(c Compression, data []byte, limit int64) ([]byte, error) {
	var r io.Reader
	src := bytes.NewReader(data)

	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		gzr, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case CompressionZstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionXz:
		xzr, err := xz.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	case CompressionLzip:
		lr, err := lzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create lzip reader: %w", err)
		}
		r = lr
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s body: %w", c, err)
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("decompressed %s body exceeds %d bytes", c, limit)
	}
	return out, nil
}
