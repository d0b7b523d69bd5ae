package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func u16be(n uint16) []byte { return []byte{byte(n >> 8), byte(n)} }
func i32be(n int32) []byte {
	u := uint32(n)
	return []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
}

func namedTag(kind byte, name string, payload []byte) []byte {
	out := []byte{kind}
	out = append(out, u16be(uint16(len(name)))...)
	out = append(out, name...)
	out = append(out, payload...)
	return out
}

func TestDecodeCompoundDuplicateKeyLastWins(t *testing.T) {
	body := append([]byte{}, namedTag(3, "x", i32be(1))...)
	body = append(body, namedTag(3, "x", i32be(2))...)
	body = append(body, 0) // TAG_End

	cur := newCursor(body, false, false)
	d := newDecoder(cur, 0)
	v, err := d.readCompound()
	require.NoError(t, err)

	c := v.(*Compound)
	require.Equal(t, 1, c.Len())
	require.Equal(t, []string{"x"}, c.Keys())
	got, ok := c.Get("x")
	require.True(t, ok)
	require.Equal(t, Int(2), got)
}

func TestDecodeEmptyList(t *testing.T) {
	// TAG_List with element kind END and length 0.
	body := []byte{0, 0, 0, 0, 0}
	cur := newCursor(body, false, false)
	d := newDecoder(cur, 0)
	v, err := d.readList()
	require.NoError(t, err)
	require.Equal(t, List(nil), v)
}

func TestDecodeListOfEndWithNonzeroLengthErrors(t *testing.T) {
	body := []byte{0, 0, 0, 0, 3}
	cur := newCursor(body, false, false)
	d := newDecoder(cur, 0)
	_, err := d.readList()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrInvalidTag, kind)
}

func TestDecodePackedIntList(t *testing.T) {
	// list of TAG_Int, length 2: [7, -1]
	body := []byte{3}
	body = append(body, i32be(2)...)
	body = append(body, i32be(7)...)
	body = append(body, i32be(-1)...)
	cur := newCursor(body, false, false)
	d := newDecoder(cur, 0)
	v, err := d.readList()
	require.NoError(t, err)
	require.Equal(t, IntArray{7, -1}, v)
}

func TestDecodeHeterogeneousListOfCompounds(t *testing.T) {
	// list of TAG_Compound, length 1, containing {"a": 5}
	inner := append([]byte{}, namedTag(3, "a", i32be(5))...)
	inner = append(inner, 0)
	body := []byte{10}
	body = append(body, i32be(1)...)
	body = append(body, inner...)
	cur := newCursor(body, false, false)
	d := newDecoder(cur, 0)
	v, err := d.readList()
	require.NoError(t, err)

	lst := v.(List)
	require.Len(t, lst, 1)
	c := lst[0].(*Compound)
	got, _ := c.Get("a")
	require.Equal(t, Int(5), got)
}

func TestDecodeNegativeArrayLengthRejected(t *testing.T) {
	body := i32be(-1)
	cur := newCursor(body, false, false)
	d := newDecoder(cur, 0)
	_, err := d.readIntArray()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrInvalidTag, kind)
}

func TestDecodeDepthExceeded(t *testing.T) {
	// three compounds nested via a single named child each, deeper than
	// the maxDepth(2) the decoder below is configured with.
	const depth = 3
	var body []byte
	for i := 0; i < depth; i++ {
		body = append(body, namedTag(10, "k", nil)...)
	}
	for i := 0; i < depth; i++ {
		body = append(body, 0) // close each nested compound in turn
	}

	cur := newCursor(body, false, false)
	d := newDecoder(cur, 2)
	_, err := d.readCompound()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrDepthExceeded, kind)
}

func TestDecodeVarintScalarUsesZigzag(t *testing.T) {
	// zigzag(-1) == 1, encoded as a single varint byte.
	cur := newCursor([]byte{1}, true, true)
	d := newDecoder(cur, 0)
	v, err := d.readScalar(KindInt)
	require.NoError(t, err)
	require.Equal(t, Int(-1), v)
}

func TestDecodeIntArrayAlwaysFixedWidthEvenInVarintMode(t *testing.T) {
	body := []byte{2} // zigzag varint length 1
	// one fixed-width little-endian int32, not a varint
	body = append(body, 0x04, 0x03, 0x02, 0x01)
	cur := newCursor(body, true, true)
	d := newDecoder(cur, 0)
	v, err := d.readIntArray()
	require.NoError(t, err)
	require.Equal(t, IntArray{0x01020304}, v)
}

func TestDecodeModifiedUTF8StringOwnsItsBytes(t *testing.T) {
	raw := []byte("hi")
	body := append(u16be(uint16(len(raw))), raw...)
	cur := newCursor(body, false, false)
	d := newDecoder(cur, 0)
	s, err := d.readString()
	require.NoError(t, err)
	require.Equal(t, "hi", s)

	// overwriting the input afterwards must not change the decoded string
	body[2], body[3] = 'x', 'x'
	require.Equal(t, "hi", s)
}
