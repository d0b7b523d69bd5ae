package nbt

import "github.com/rmmh/gonbt/nbt/nbtcompress"

// Read decodes input into a value tree, resolving any hint axis left
// unset in hints by speculative trial: each axis tries its candidates in
// a fixed order and, if every candidate fails, surfaces the first
// candidate's error rather than the last. See §4.3 of the design doc.
func Read(input []byte, hints Hints) (Result, error) {
	return resolveCompression(input, hints)
}

// tryCandidates is the small detection combinator every axis below is
// built on: try each candidate in order, return the first success, and
// on total failure return the *first* candidate's error (it's usually
// the most informative -- e.g. big-endian failures read like real parse
// errors, where little-endian/varint failures on the same bytes tend to
// be garbage further downstream).
func tryCandidates[T any](candidates []T, try func(T) (Result, error)) (Result, error) {
	var firstErr error
	for _, c := range candidates {
		res, err := try(c)
		if err == nil {
			return res, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return Result{}, firstErr
}

func resolveCompression(input []byte, h Hints) (Result, error) {
	if h.Compression != nil {
		return decompressAndContinue(input, *h.Compression, h)
	}
	if hasGzipMagic(input) {
		return decompressAndContinue(input, CompressionGzip, h)
	}
	if hasZlibMagic(input) {
		return decompressAndContinue(input, CompressionZlibDeflate, h)
	}
	return tryCandidates([]Compression{CompressionNone, CompressionRawDeflate}, func(c Compression) (Result, error) {
		return decompressAndContinue(input, c, h)
	})
}

func decompressAndContinue(input []byte, c Compression, h Hints) (Result, error) {
	decompressed, err := nbtcompress.Decompress(input, c)
	if err != nil {
		return Result{}, err
	}
	return resolveEndian(decompressed, c, h)
}

func resolveEndian(buf []byte, compression Compression, h Hints) (Result, error) {
	if h.Endian != nil {
		return resolveBedrockLevel(buf, compression, *h.Endian, h)
	}
	return tryCandidates([]Endian{Big, Little, LittleVarint}, func(e Endian) (Result, error) {
		return resolveBedrockLevel(buf, compression, e, h)
	})
}

func resolveBedrockLevel(buf []byte, compression Compression, endian Endian, h Hints) (Result, error) {
	bedrock := hasBedrockLevelHeader(buf, endian.littleEndian())
	if h.BedrockLevel != nil {
		bedrock = *h.BedrockLevel
	}
	body := buf
	if bedrock {
		if len(body) < 8 {
			return Result{}, newError(ErrUnexpectedBufferEnd, 0, "bedrock level header: buffer shorter than 8 bytes")
		}
		body = body[8:]
	}
	return resolveRootName(body, compression, endian, bedrock, h)
}

func resolveRootName(body []byte, compression Compression, endian Endian, bedrock bool, h Hints) (Result, error) {
	if h.RootName != nil && h.RootName.Mode != RootNameAuto {
		return decodeRoot(body, compression, endian, bedrock, *h.RootName, h)
	}
	return tryCandidates([]RootNameMode{RootNamePresent, RootNameAbsent}, func(mode RootNameMode) (Result, error) {
		return decodeRoot(body, compression, endian, bedrock, RootNameHint{Mode: mode}, h)
	})
}

// decodeRoot performs the grammar-decode step of the detection algorithm
// on body (from which resolveBedrockLevel has already removed any Bedrock
// header): read the opening kind byte, read or skip
// the root name per rn, decode the root body, and enforce the strict
// trailing-bytes rule.
func decodeRoot(body []byte, compression Compression, endian Endian, bedrock bool, rn RootNameHint, h Hints) (Result, error) {
	cur := newCursor(body, endian.littleEndian(), endian.varint())
	d := newDecoder(cur, h.MaxDepth)

	k, err := d.readKind()
	if err != nil {
		return Result{}, err
	}
	if k != KindList && k != KindCompound {
		return Result{}, newError(ErrInvalidOpeningTag, cur.offset()-1, "root kind %s is neither LIST nor COMPOUND", k)
	}

	framing := Framing{Endian: endian, Compression: compression, BedrockLevel: bedrock}

	switch rn.Mode {
	case RootNameAbsent:
		// nameless root, as on Bedrock network streams.
	case RootNameExact:
		name, err := d.readString()
		if err != nil {
			return Result{}, err
		}
		if name != rn.Name {
			return Result{}, newError(ErrUnexpectedRootName, cur.offset(), "expected root name %q, got %q", rn.Name, name)
		}
		framing.RootName, framing.RootNameSet = name, true
	default: // RootNamePresent, RootNameAuto
		name, err := d.readString()
		if err != nil {
			return Result{}, err
		}
		framing.RootName, framing.RootNameSet = name, true
	}

	root, err := d.readValue(k)
	if err != nil {
		return Result{}, err
	}

	if h.strictOrDefault() && cur.offset() != cur.len() {
		return Result{}, newError(ErrUnexpectedEndTag, cur.offset(), "%d trailing bytes after root tag", cur.len()-cur.offset())
	}

	return Result{Root: root, Framing: framing, FinalOffset: cur.offset()}, nil
}
