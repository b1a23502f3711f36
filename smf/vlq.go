// Package smf builds Standard MIDI Files: a tagged event model with
// absolute tick timestamps, the variable-length-quantity integer codec, and
// bit-exact big-endian serialization of header and track chunks.
package smf

import "errors"

var ErrVLQTruncated = errors.New("truncated variable-length quantity")

// AppendVLQ appends the MIDI variable-length-quantity encoding of v to dst:
// big-endian 7-bit groups, bit 7 set on every byte but the last. Zero
// encodes as a single 0x00 byte.
func AppendVLQ(dst []byte, v uint32) []byte {
	var groups [5]byte
	n := 0
	for {
		groups[n] = byte(v & 0x7F)
		n++
		v >>= 7
		if v == 0 {
			break
		}
	}
	for i := n - 1; i > 0; i-- {
		dst = append(dst, groups[i]|0x80)
	}
	return append(dst, groups[0])
}

// ReadVLQ decodes a variable-length quantity from the start of data,
// returning the value and the number of bytes consumed.
func ReadVLQ(data []byte) (v uint32, n int, err error) {
	for n < len(data) {
		b := data[n]
		n++
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, n, nil
		}
	}
	return 0, n, ErrVLQTruncated
}
