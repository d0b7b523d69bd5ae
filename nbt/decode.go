package nbt

import "github.com/rmmh/gonbt/nbt/mutf8"

// defaultMaxDepth bounds recursive descent against hostile, arbitrarily
// nested input. The on-wire grammar permits unbounded nesting; nothing in
// real Minecraft data approaches this, so exceeding it is always a
// deliberately crafted or corrupt stream.
const defaultMaxDepth = 512

// decoder walks the recursive NBT tag grammar over a cursor.
type decoder struct {
	cur      *cursor
	maxDepth int
	depth    int
}

func newDecoder(cur *cursor, maxDepth int) *decoder {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &decoder{cur: cur, maxDepth: maxDepth}
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return newError(ErrDepthExceeded, d.cur.offset(), "exceeded max nesting depth %d", d.maxDepth)
	}
	return nil
}

func (d *decoder) leave() { d.depth-- }

// readKind reads a single kind byte and validates it falls in 0..12.
func (d *decoder) readKind() (Kind, error) {
	b, err := d.cur.ReadU8()
	if err != nil {
		return 0, err
	}
	k := Kind(b)
	if !k.Valid() {
		return 0, newError(ErrInvalidTag, d.cur.offset()-1, "kind byte %d outside 0..12", b)
	}
	return k, nil
}

// readStringLength reads a STRING's byte length: an unsigned varint in
// varint mode, otherwise an unsigned 16-bit integer.
func (d *decoder) readStringLength() (int, error) {
	if d.cur.varint {
		v, err := d.cur.ReadUvarint()
		if err != nil {
			return 0, err
		}
		return int(v), nil
	}
	v, err := d.cur.ReadU16()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// readString reads a length-prefixed Modified UTF-8 string.
func (d *decoder) readString() (string, error) {
	n, err := d.readStringLength()
	if err != nil {
		return "", err
	}
	if err := d.cur.need(n); err != nil {
		return "", err
	}
	raw := d.cur.buf[d.cur.off : d.cur.off+n]
	d.cur.off += n
	s, err := mutf8.Decode(raw)
	if err != nil {
		return "", err
	}
	// Copy into owned storage: raw aliases the (possibly decompressed,
	// caller-owned) input buffer and must not leak into the returned tree.
	return string(append([]byte(nil), []byte(s)...)), nil
}

// readArrayLength reads a *_ARRAY or LIST length prefix: ZigZag-varint in
// varint mode, otherwise a signed 32-bit integer. Negative lengths are
// rejected.
func (d *decoder) readArrayLength() (int, error) {
	var n int32
	var err error
	if d.cur.varint {
		n, err = d.cur.ReadZigzag32()
	} else {
		n, err = d.cur.ReadI32()
	}
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, newError(ErrInvalidTag, d.cur.offset(), "negative length %d", n)
	}
	return int(n), nil
}

// readScalar decodes one of the six fixed-shape numeric primitive kinds
// (never END/arrays/containers) directly into a Value.
func (d *decoder) readScalar(k Kind) (Value, error) {
	switch k {
	case KindByte:
		v, err := d.cur.ReadI8()
		return Int(v), err
	case KindShort:
		v, err := d.cur.ReadI16()
		return Int(v), err
	case KindInt:
		if d.cur.varint {
			v, err := d.cur.ReadZigzag32()
			return Int(v), err
		}
		v, err := d.cur.ReadI32()
		return Int(v), err
	case KindLong:
		if d.cur.varint {
			v, err := d.cur.ReadZigzag64()
			return Long(v), err
		}
		v, err := d.cur.ReadI64()
		return Long(v), err
	case KindFloat:
		v, err := d.cur.ReadF32()
		return Float(v), err
	case KindDouble:
		v, err := d.cur.ReadF64()
		return Double(v), err
	default:
		panic("nbt: readScalar called with non-scalar kind")
	}
}

// readValue decodes the payload for a tag of the given kind, dispatching
// by kind exactly as a single recursive-descent routine per tag kind would.
func (d *decoder) readValue(k Kind) (Value, error) {
	switch {
	case k == KindEnd:
		return nil, newError(ErrInvalidTag, d.cur.offset()-1, "unexpected end tag")
	case k.numeric():
		return d.readScalar(k)
	case k == KindByteArray:
		return d.readByteArray()
	case k == KindString:
		s, err := d.readString()
		return String(s), err
	case k == KindList:
		return d.readList()
	case k == KindCompound:
		return d.readCompound()
	case k == KindIntArray:
		return d.readIntArray()
	case k == KindLongArray:
		return d.readLongArray()
	default:
		panic("nbt: readValue called with invalid kind")
	}
}

func (d *decoder) readByteArray() (Value, error) {
	n, err := d.readArrayLength()
	if err != nil {
		return nil, err
	}
	out := make(ByteArray, n)
	for i := range out {
		v, err := d.cur.ReadI8()
		if err != nil {
			return nil, err
		}
		out[i] = int8(v)
	}
	return out, nil
}

func (d *decoder) readIntArray() (Value, error) {
	n, err := d.readArrayLength()
	if err != nil {
		return nil, err
	}
	out := make(IntArray, n)
	for i := range out {
		// INT_ARRAY elements are always fixed-width, even in varint mode.
		v, err := d.cur.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) readLongArray() (Value, error) {
	n, err := d.readArrayLength()
	if err != nil {
		return nil, err
	}
	out := make(LongArray, n)
	for i := range out {
		// LONG_ARRAY elements are always fixed-width, even in varint mode.
		v, err := d.cur.ReadI64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) readList() (Value, error) {
	elemKind, err := d.readKind()
	if err != nil {
		return nil, err
	}
	n, err := d.readArrayLength()
	if err != nil {
		return nil, err
	}
	if elemKind == KindEnd {
		if n != 0 {
			return nil, newError(ErrInvalidTag, d.cur.offset(), "list of END with non-zero length %d", n)
		}
		return List(nil), nil
	}
	if elemKind.numeric() {
		return d.readPackedList(elemKind, n)
	}
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()
	out := make(List, n)
	for i := range out {
		v, err := d.readValue(elemKind)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// readPackedList fills a packed numeric buffer by recursive per-element
// reads -- so INT/LONG list elements are themselves varint-ZigZag coded
// in varint mode, exactly like standalone INT/LONG tags. Only the *_ARRAY
// tags are exempt from this (their elements are always fixed-width).
func (d *decoder) readPackedList(elemKind Kind, n int) (Value, error) {
	switch elemKind {
	case KindByte:
		out := make(ByteArray, n)
		for i := range out {
			v, err := d.cur.ReadI8()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindShort:
		out := make(ShortArray, n)
		for i := range out {
			v, err := d.cur.ReadI16()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindInt:
		out := make(IntArray, n)
		for i := range out {
			v, err := d.readScalar(KindInt)
			if err != nil {
				return nil, err
			}
			out[i] = int32(v.(Int))
		}
		return out, nil
	case KindLong:
		out := make(LongArray, n)
		for i := range out {
			v, err := d.readScalar(KindLong)
			if err != nil {
				return nil, err
			}
			out[i] = int64(v.(Long))
		}
		return out, nil
	case KindFloat:
		out := make(FloatArray, n)
		for i := range out {
			v, err := d.cur.ReadF32()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindDouble:
		out := make(DoubleArray, n)
		for i := range out {
			v, err := d.cur.ReadF64()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		panic("nbt: readPackedList called with non-numeric kind")
	}
}

// readCompound runs the EXPECT_KIND -> EXPECT_NAME -> EXPECT_CHILD state
// machine until it reaches END.
func (d *decoder) readCompound() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()
	c := NewCompound()
	for {
		k, err := d.readKind()
		if err != nil {
			return nil, err
		}
		if k == KindEnd {
			return c, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		v, err := d.readValue(k)
		if err != nil {
			return nil, err
		}
		c.Set(name, v)
	}
}
