// Package mutf8 decodes Java's Modified UTF-8 ("Modified UTF-8" per the
// JVM class file spec, §4.4.7), the encoding NBT uses for STRING payloads.
//
// It differs from standard UTF-8 in two ways: the NUL code point is
// encoded as the two-byte sequence 0xC0 0x80 rather than a single 0x00
// byte, and code points above U+FFFF are encoded as a surrogate pair of
// three-byte sequences (CESU-8 style) rather than a single four-byte
// sequence. This package is treated as a black-box collaborator by the
// decoder: it accepts raw bytes and returns a decoded string, or an error.
package mutf8

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

func isHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }

// Decode converts Modified UTF-8 bytes to a Go string (which is always
// valid standard UTF-8).
func Decode(b []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))
	i := 0
	for i < len(b) {
		c0 := b[i]
		switch {
		case c0&0x80 == 0:
			// 1-byte: 0xxxxxxx
			sb.WriteByte(c0)
			i++

		case c0&0xE0 == 0xC0:
			// 2-byte: 110xxxxx 10xxxxxx -- includes the NUL encoding 0xC0 0x80.
			if i+1 >= len(b) {
				return "", fmt.Errorf("truncated 2-byte sequence at offset %d", i)
			}
			c1 := b[i+1]
			if c1&0xC0 != 0x80 {
				return "", fmt.Errorf("invalid continuation byte at offset %d", i+1)
			}
			r := rune(c0&0x1F)<<6 | rune(c1&0x3F)
			sb.WriteRune(r)
			i += 2

		case c0&0xF0 == 0xE0:
			// 3-byte: 1110xxxx 10xxxxxx 10xxxxxx -- or one half of a CESU-8
			// surrogate pair encoding a supplementary-plane code point.
			if i+2 >= len(b) {
				return "", fmt.Errorf("truncated 3-byte sequence at offset %d", i)
			}
			c1, c2 := b[i+1], b[i+2]
			if c1&0xC0 != 0x80 || c2&0xC0 != 0x80 {
				return "", fmt.Errorf("invalid continuation byte at offset %d", i+1)
			}
			r := rune(c0&0x0F)<<12 | rune(c1&0x3F)<<6 | rune(c2&0x3F)
			if isHighSurrogate(r) && i+5 < len(b) && b[i+3]&0xF0 == 0xE0 {
				c3, c4, c5 := b[i+3], b[i+4], b[i+5]
				if c4&0xC0 == 0x80 && c5&0xC0 == 0x80 {
					lo := rune(c3&0x0F)<<12 | rune(c4&0x3F)<<6 | rune(c5&0x3F)
					if combined := utf16.DecodeRune(r, lo); combined != utf8.RuneError {
						sb.WriteRune(combined)
						i += 6
						continue
					}
				}
			}
			sb.WriteRune(r)
			i += 3

		default:
			return "", fmt.Errorf("invalid leading byte 0x%02x at offset %d", c0, i)
		}
	}
	return sb.String(), nil
}
