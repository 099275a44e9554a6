package source

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"
)

// Byte order marks recognized in legacy exports.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeToUTF8 strips any BOM and converts the payload to UTF-8.
// Detection order: UTF-8 BOM, UTF-16 BOMs, valid UTF-8, Latin-1 fallback.
// Old Odoo CSV exports are commonly Latin-1 without a BOM.
func decodeToUTF8(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[3:]
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data[2:], binary.LittleEndian)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data[2:], binary.BigEndian)
	case utf8.Valid(data):
		return data
	default:
		return decodeLatin1(data)
	}
}

// decodeLatin1 maps each byte directly to the same Unicode code point.
func decodeLatin1(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data) * 2)
	for _, b := range data {
		if b < 0x80 {
			buf.WriteByte(b)
		} else {
			buf.WriteRune(rune(b))
		}
	}
	return buf.Bytes()
}

// decodeUTF16 converts UTF-16 code units (in the given byte order) to UTF-8.
// Unpaired surrogates become the replacement character.
func decodeUTF16(data []byte, order binary.ByteOrder) []byte {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for i := 0; i < len(data); i += 2 {
		unit := order.Uint16(data[i : i+2])

		if unit >= 0xD800 && unit <= 0xDBFF {
			if i+3 < len(data) {
				low := order.Uint16(data[i+2 : i+4])
				if low >= 0xDC00 && low <= 0xDFFF {
					buf.WriteRune(0x10000 + (rune(unit-0xD800)<<10 | rune(low-0xDC00)))
					i += 2
					continue
				}
			}
			buf.WriteRune(0xFFFD)
			continue
		}
		if unit >= 0xDC00 && unit <= 0xDFFF {
			buf.WriteRune(0xFFFD)
			continue
		}

		buf.WriteRune(rune(unit))
	}

	return buf.Bytes()
}

// sanitizeUTF8 replaces any remaining invalid byte sequences with the
// replacement character so downstream string handling never sees raw bytes.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
