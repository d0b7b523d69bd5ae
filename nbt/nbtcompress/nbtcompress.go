// Package nbtcompress is the decompression shim the format driver treats
// as a black box: decompress(bytes, scheme) -> bytes. It backs the three
// supported wrapper schemes on klauspost/compress, which both the teacher
// repository and its sibling retrieved repositories (e.g. grafana/loki)
// already depend on for exactly this kind of stream decompression.
package nbtcompress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Scheme names one of the wrapper schemes the NBT format driver can
// select, either from a hint or from header sniffing / trial.
type Scheme int

const (
	None Scheme = iota
	Gzip
	ZlibDeflate
	RawDeflate
)

func (s Scheme) String() string {
	switch s {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case ZlibDeflate:
		return "zlib-deflate"
	case RawDeflate:
		return "raw-deflate"
	default:
		return "unknown"
	}
}

// Decompress returns the fully-inflated contents of in under scheme. For
// None it simply returns in unchanged (no copy).
func Decompress(in []byte, scheme Scheme) ([]byte, error) {
	switch scheme {
	case None:
		return in, nil
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(in))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case ZlibDeflate:
		r, err := zlib.NewReader(bytes.NewReader(in))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case RawDeflate:
		r := flate.NewReader(bytes.NewReader(in))
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, errUnknownScheme(scheme)
	}
}

type errUnknownScheme Scheme

func (e errUnknownScheme) Error() string {
	return "nbtcompress: unknown scheme " + Scheme(e).String()
}
