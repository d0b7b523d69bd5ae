// Package region reads Minecraft Anvil region files (.mca): the
// 4KiB-sector-addressed container that groups a 32x32 grid of chunks,
// each an independently compressed NBT document. It exists to give the
// nbt package's decoder real multi-megabyte production payloads to run
// against, the way the teacher repository's own region reader fed its
// block-state pipeline.
package region

import (
	"encoding/binary"
	"io"
	"log"
	"os"
	"sort"

	lz4 "github.com/DataDog/golz4-2"
	"github.com/pkg/errors"

	"github.com/rmmh/gonbt/nbt"
	"github.com/rmmh/gonbt/nbt/nbtcompress"
)

const (
	sectorSize   = 4096
	headerSize   = 2 * sectorSize // offset table + timestamp table
	chunksPerDim = 32
	chunkCount   = chunksPerDim * chunksPerDim
)

// scheme is the single compression-scheme byte Anvil stores ahead of
// each chunk payload. 1-3 are the vanilla schemes; 4 is a
// community extension (used by some proxies and by Bedrock-to-Java
// converters) wrapping an LZ4 block, prefixed with its uncompressed
// length, instead of zlib/gzip deflate.
type scheme byte

const (
	schemeGzip         scheme = 1
	schemeZlib         scheme = 2
	schemeUncompressed scheme = 3
	schemeLZ4          scheme = 4
)

// Region is an open handle on one region file's 1024-entry sector
// table. It does not hold the file open between ReadChunk calls.
type Region struct {
	path       string
	rx, rz     int
	offsets    [chunkCount]uint32 // sector offset<<8 | sector count
	timestamps [chunkCount]uint32
}

// Open reads a region file's header (the two 4KiB sector tables) and
// returns a Region ready for ReadChunk. rx, rz are the region's own
// coordinates (as encoded in its filename, r.<rx>.<rz>.mca); Open does
// not parse the filename itself, since callers already have it.
func Open(path string, rx, rz int) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "region: open")
	}
	defer f.Close()

	var header [headerSize]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, errors.Wrap(err, "region: read header")
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "region: stat")
	}
	fileSectors := fi.Size() / sectorSize

	r := &Region{path: path, rx: rx, rz: rz}
	for i := 0; i < chunkCount; i++ {
		r.offsets[i] = binary.BigEndian.Uint32(header[i*4:])
	}
	for i := 0; i < chunkCount; i++ {
		r.timestamps[i] = binary.BigEndian.Uint32(header[sectorSize+i*4:])
	}

	for i, off := range r.offsets {
		if off == 0 {
			continue
		}
		start := int64(off >> 8)
		count := int64(off & 0xff)
		if count == 0 || start+count > fileSectors {
			log.Printf("region: %s: chunk %d's sector table entry (offset %d, %d sectors) runs past the file's %d sectors -- truncated or corrupt region file", path, i, start, count, fileSectors)
		}
	}
	return r, nil
}

func (r *Region) Rx() int { return r.rx }
func (r *Region) Rz() int { return r.rz }

// Present reports whether local chunk index idx (0..1023, x + 32*z
// within the region) has data in this region file.
func (r *Region) Present(idx int) bool { return r.offsets[idx] != 0 }

// ChunkIndices returns the local indices of every present chunk, in
// the order they occur on disk (by sector offset), which is the order
// that minimizes seek distance when reading all of them.
func (r *Region) ChunkIndices() []int {
	idxs := make([]int, 0, chunkCount)
	for i, off := range r.offsets {
		if off != 0 {
			idxs = append(idxs, i)
		}
	}
	sort.Slice(idxs, func(a, b int) bool { return r.offsets[idxs[a]] < r.offsets[idxs[b]] })
	return idxs
}

// ReadChunk decodes the chunk at local index idx (0..1023). It is the
// caller's job to call this in ChunkIndices order for good locality;
// ReadChunk itself performs one seek + one sector-aligned read per
// call, no caching.
func (r *Region) ReadChunk(idx int, hints nbt.Hints) (nbt.Result, error) {
	if !r.Present(idx) {
		return nbt.Result{}, errors.Errorf("region: chunk %d not present in %s", idx, r.path)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nbt.Result{}, errors.Wrap(err, "region: open")
	}
	defer f.Close()

	entry := r.offsets[idx]
	sectorOffset := int64(entry >> 8)
	sectorLen := int(entry & 0xff)
	if sectorLen == 0 {
		return nbt.Result{}, errors.Errorf("region: chunk %d has zero-length sector run", idx)
	}

	buf := make([]byte, sectorLen*sectorSize)
	if _, err := f.ReadAt(buf, sectorOffset*sectorSize); err != nil {
		return nbt.Result{}, errors.Wrap(err, "region: read chunk sectors")
	}

	length := binary.BigEndian.Uint32(buf)
	if int(length) < 1 || int(length) > len(buf)-4 {
		return nbt.Result{}, errors.Errorf("region: chunk %d length %d out of bounds for %d padded bytes", idx, length, len(buf)-4)
	}
	sch := scheme(buf[4])
	payload := buf[5 : 4+length]

	decompressed, err := decompress(sch, payload)
	if err != nil {
		return nbt.Result{}, errors.Wrapf(err, "region: chunk %d", idx)
	}

	none := nbt.CompressionNone
	hints.Compression = &none
	res, err := nbt.Read(decompressed, hints)
	if err != nil {
		return nbt.Result{}, errors.Wrapf(err, "region: chunk %d nbt decode", idx)
	}
	return res, nil
}

// decompress unwraps a chunk payload per its scheme byte. The scheme
// byte is authoritative, so none of the nbt package's own compression
// sniffing runs here -- ReadChunk hands nbt.Read already-decompressed
// bytes, and callers only need hints for the remaining axes (endian,
// root name, bedrock level).
func decompress(sch scheme, payload []byte) ([]byte, error) {
	switch sch {
	case schemeGzip:
		return nbtcompress.Decompress(payload, nbtcompress.Gzip)
	case schemeZlib:
		return nbtcompress.Decompress(payload, nbtcompress.ZlibDeflate)
	case schemeUncompressed:
		return payload, nil
	case schemeLZ4:
		return lz4.UncompressAllocHdr(nil, payload)
	default:
		return nil, errors.Errorf("region: unknown chunk compression scheme %d", sch)
	}
}
