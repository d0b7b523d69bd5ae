package nbt

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a Go-syntax-like rendering of v to w, indenting nested
// compounds and lists by one unit of indent per level. It is meant for
// eyeballing a decoded tree at a terminal, not for round-tripping --
// there is no corresponding Parse.
func Fprint(w io.Writer, v Value, indent string) error {
	pw := &printWriter{w: w}
	fprintValue(pw, v, indent, 0)
	return pw.err
}

type printWriter struct {
	w   io.Writer
	err error
}

func (pw *printWriter) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format, args...)
}

func fprintValue(pw *printWriter, v Value, indent string, depth int) {
	switch t := v.(type) {
	case nil:
		pw.printf("nil")
	case Int:
		pw.printf("Int(%d)", int32(t))
	case Long:
		pw.printf("Long(%d)", int64(t))
	case Float:
		pw.printf("Float(%v)", float32(t))
	case Double:
		pw.printf("Double(%v)", float64(t))
	case Bool:
		pw.printf("Bool(%v)", bool(t))
	case String:
		pw.printf("String(%q)", string(t))
	case ByteArray:
		pw.printf("ByteArray%v", []int8(t))
	case ShortArray:
		pw.printf("ShortArray%v", []int16(t))
	case IntArray:
		pw.printf("IntArray%v", []int32(t))
	case LongArray:
		pw.printf("LongArray%v", []int64(t))
	case FloatArray:
		pw.printf("FloatArray%v", []float32(t))
	case DoubleArray:
		pw.printf("DoubleArray%v", []float64(t))
	case List:
		fprintList(pw, t, indent, depth)
	case *Compound:
		fprintCompound(pw, t, indent, depth)
	default:
		pw.printf("%#v", v)
	}
}

func fprintList(pw *printWriter, l List, indent string, depth int) {
	if len(l) == 0 {
		pw.printf("List{}")
		return
	}
	pw.printf("List{\n")
	childIndent := strings.Repeat(indent, depth+1)
	for _, elem := range l {
		pw.printf("%s", childIndent)
		fprintValue(pw, elem, indent, depth+1)
		pw.printf(",\n")
	}
	pw.printf("%s}", strings.Repeat(indent, depth))
}

func fprintCompound(pw *printWriter, c *Compound, indent string, depth int) {
	if c.Len() == 0 {
		pw.printf("Compound{}")
		return
	}
	pw.printf("Compound{\n")
	childIndent := strings.Repeat(indent, depth+1)
	for _, key := range c.Keys() {
		val, _ := c.Get(key)
		pw.printf("%s%q: ", childIndent, key)
		fprintValue(pw, val, indent, depth+1)
		pw.printf(",\n")
	}
	pw.printf("%s}", strings.Repeat(indent, depth))
}
