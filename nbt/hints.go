package nbt

import "github.com/rmmh/gonbt/nbt/nbtcompress"

// Endian selects one of the three wire dialects.
type Endian int

const (
	// Big is Java edition's network byte order for fixed-width values.
	Big Endian = iota
	// Little is Bedrock files' little-endian fixed-width dialect.
	Little
	// LittleVarint is Bedrock network streams' dialect: little-endian
	// floats and array element widths, but ZigZag-varint INT/LONG values
	// and list/array lengths, and unsigned-varint STRING lengths.
	LittleVarint
)

func (e Endian) String() string {
	switch e {
	case Big:
		return "big"
	case Little:
		return "little"
	case LittleVarint:
		return "little-varint"
	default:
		return "unknown"
	}
}

func (e Endian) littleEndian() bool { return e != Big }
func (e Endian) varint() bool       { return e == LittleVarint }

// Compression names one of the wrapper schemes a stream may be dressed in.
type Compression = nbtcompress.Scheme

const (
	CompressionNone        = nbtcompress.None
	CompressionGzip        = nbtcompress.Gzip
	CompressionZlibDeflate = nbtcompress.ZlibDeflate
	CompressionRawDeflate  = nbtcompress.RawDeflate
)

// RootNameMode selects how the root_name hint axis is interpreted.
type RootNameMode int

const (
	// RootNameAuto means the axis is undetermined: the driver tries
	// RootNamePresent then RootNameAbsent.
	RootNameAuto RootNameMode = iota
	// RootNamePresent means a root name string is on the wire (its value
	// is not checked).
	RootNamePresent
	// RootNameAbsent means no root name string is on the wire, as on
	// Bedrock network streams.
	RootNameAbsent
	// RootNameExact means a root name string is on the wire and must
	// equal RootNameHint.Name exactly.
	RootNameExact
)

// RootNameHint pins the root_name axis, or leaves it for auto-detection
// when Mode is RootNameAuto (the zero value).
type RootNameHint struct {
	Mode RootNameMode
	Name string
}

// Hints is the decoder's configuration surface. Every field is optional;
// a nil pointer means "auto-detect this axis by speculative trial."
type Hints struct {
	// RootName pins the root_name axis. Nil means auto-detect (try
	// present, then absent).
	RootName *RootNameHint
	// Endian pins the endian axis. Nil means auto-detect (try big, then
	// little, then little-varint).
	Endian *Endian
	// Compression pins the compression axis. Nil means sniff headers,
	// falling back to a none/raw-deflate trial.
	Compression *Compression
	// BedrockLevel pins whether an 8-byte Bedrock level header precedes
	// the root. Nil means auto-detect via the header predicate.
	BedrockLevel *bool
	// Strict, when true (the default, via strictOrDefault), makes any
	// trailing bytes after the root tag a hard error. When false, the
	// final offset reached is reported back in Result instead.
	Strict *bool
	// MaxDepth overrides the recursive-descent nesting cap. Zero means
	// defaultMaxDepth (512).
	MaxDepth int
}

func (h Hints) strictOrDefault() bool {
	if h.Strict == nil {
		return true
	}
	return *h.Strict
}

func boolPtr(b bool) *bool         { return &b }
func endianPtr(e Endian) *Endian   { return &e }
func compPtr(c Compression) *Compression { return &c }
