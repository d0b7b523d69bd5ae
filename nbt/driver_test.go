package nbt

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/require"
)

// javaRoot builds the uncompressed, big-endian, named-root wire bytes for
// TAG_Compound("greeting") { TAG_String("msg") = "hi" }.
func javaRoot(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteByte(10) // TAG_Compound
	buf.Write(u16be(uint16(len("greeting"))))
	buf.WriteString("greeting")

	buf.WriteByte(8) // TAG_String
	buf.Write(u16be(uint16(len("msg"))))
	buf.WriteString("msg")
	buf.Write(u16be(uint16(len("hi"))))
	buf.WriteString("hi")

	buf.WriteByte(0) // end of root compound
	return buf.Bytes()
}

func TestReadAutoDetectsUncompressedBigEndian(t *testing.T) {
	res, err := Read(javaRoot(t), Hints{})
	require.NoError(t, err)
	require.Equal(t, Big, res.Framing.Endian)
	require.Equal(t, CompressionNone, res.Framing.Compression)
	require.True(t, res.Framing.RootNameSet)
	require.Equal(t, "greeting", res.Framing.RootName)

	c := res.Root.(*Compound)
	msg, ok := c.Get("msg")
	require.True(t, ok)
	require.Equal(t, String("hi"), msg)
}

func TestReadAutoDetectsGzip(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write(javaRoot(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	res, err := Read(gz.Bytes(), Hints{})
	require.NoError(t, err)
	require.Equal(t, CompressionGzip, res.Framing.Compression)
	require.Equal(t, Big, res.Framing.Endian)
}

func TestReadPinnedHintsSkipDetection(t *testing.T) {
	endian := Big
	comp := CompressionNone
	res, err := Read(javaRoot(t), Hints{Endian: &endian, Compression: &comp})
	require.NoError(t, err)
	require.Equal(t, "greeting", res.Framing.RootName)
}

func TestReadRootNameAbsent(t *testing.T) {
	// same payload without the root name string -- the Bedrock network
	// dialect's nameless-root shape.
	var buf bytes.Buffer
	buf.WriteByte(10)
	buf.WriteByte(8)
	buf.Write(u16be(uint16(len("msg"))))
	buf.WriteString("msg")
	buf.Write(u16be(uint16(len("hi"))))
	buf.WriteString("hi")
	buf.WriteByte(0)

	res, err := Read(buf.Bytes(), Hints{})
	require.NoError(t, err)
	require.False(t, res.Framing.RootNameSet)
	c := res.Root.(*Compound)
	msg, _ := c.Get("msg")
	require.Equal(t, String("hi"), msg)
}

func TestReadRejectsInvalidOpeningTag(t *testing.T) {
	_, err := Read([]byte{3, 0, 0, 0, 0}, Hints{})
	require.Error(t, err)
}

func TestReadStrictRejectsTrailingBytes(t *testing.T) {
	body := append(javaRoot(t), 0xff, 0xff)
	_, err := Read(body, Hints{})
	require.Error(t, err)
}

func TestReadNonStrictReportsFinalOffset(t *testing.T) {
	root := javaRoot(t)
	body := append(append([]byte{}, root...), 0xff, 0xff)
	strict := false
	res, err := Read(body, Hints{Strict: &strict})
	require.NoError(t, err)
	require.Equal(t, len(root), res.FinalOffset)
}
