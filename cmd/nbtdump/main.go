// Command nbtdump reads one NBT document and prints its decoded value
// tree in a Go-syntax-like form. Every hint axis defaults to
// auto-detection; pass a flag to pin an axis when you already know it
// (or want to rule out a misdetection).
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/rmmh/gonbt/nbt"
)

var (
	nbtPath      = flag.String("nbt", "", "path to the NBT file to decode (required)")
	endianFlag   = flag.String("endian", "auto", "big, little, little-varint, or auto")
	compression  = flag.String("compression", "auto", "none, gzip, zlib, raw-deflate, or auto")
	rootName     = flag.String("root-name", "auto", "present, absent, auto, or an exact expected name")
	bedrockLevel = flag.String("bedrock-level", "auto", "true, false, or auto")
	space        = flag.String("space", "  ", "indent unit for the printed tree")
	strict       = flag.Bool("strict", true, "error on trailing bytes after the root tag")
	maxDepth     = flag.Int("max-depth", 0, "recursive-descent depth cap (0 means the package default)")
)

func parseHints() nbt.Hints {
	var h nbt.Hints
	h.MaxDepth = *maxDepth
	h.Strict = strict

	switch *endianFlag {
	case "auto":
	case "big":
		e := nbt.Big
		h.Endian = &e
	case "little":
		e := nbt.Little
		h.Endian = &e
	case "little-varint":
		e := nbt.LittleVarint
		h.Endian = &e
	default:
		log.Fatalf("nbtdump: unknown -endian value %q", *endianFlag)
	}

	switch *compression {
	case "auto":
	case "none":
		c := nbt.CompressionNone
		h.Compression = &c
	case "gzip":
		c := nbt.CompressionGzip
		h.Compression = &c
	case "zlib":
		c := nbt.CompressionZlibDeflate
		h.Compression = &c
	case "raw-deflate":
		c := nbt.CompressionRawDeflate
		h.Compression = &c
	default:
		log.Fatalf("nbtdump: unknown -compression value %q", *compression)
	}

	switch *rootName {
	case "auto":
	case "present":
		h.RootName = &nbt.RootNameHint{Mode: nbt.RootNamePresent}
	case "absent":
		h.RootName = &nbt.RootNameHint{Mode: nbt.RootNameAbsent}
	default:
		h.RootName = &nbt.RootNameHint{Mode: nbt.RootNameExact, Name: *rootName}
	}

	switch *bedrockLevel {
	case "auto":
	case "true":
		b := true
		h.BedrockLevel = &b
	case "false":
		b := false
		h.BedrockLevel = &b
	default:
		log.Fatalf("nbtdump: unknown -bedrock-level value %q", *bedrockLevel)
	}

	return h
}

func main() {
	flag.Parse()

	if *nbtPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nbtdump --nbt=<file> [flags]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*nbtPath)
	if err != nil {
		log.Fatal(err)
	}

	hints := parseHints()
	if hints.MaxDepth != 0 {
		slog.Info("overriding max decode depth", "max_depth", hints.MaxDepth)
	}

	res, err := nbt.Read(data, hints)
	if err != nil {
		log.Fatal(err)
	}

	slog.Info("resolved framing",
		"endian", res.Framing.Endian.String(),
		"compression", res.Framing.Compression.String(),
		"bedrock_level", res.Framing.BedrockLevel,
		"root_name", res.Framing.RootName,
		"root_name_set", res.Framing.RootNameSet)

	if err := nbt.Fprint(os.Stdout, res.Root, *space); err != nil {
		log.Fatal(err)
	}
	fmt.Println()
}
