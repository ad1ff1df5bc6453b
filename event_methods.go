package nostrnode

import (
	"encoding/hex"
	"strconv"

	"github.com/mailru/easyjson"
)

func (evt Event) String() string {
	j, _ := easyjson.Marshal(evt)
	return string(j)
}

// Serialize outputs the byte array that is hashed to produce the canonical event id:
//
//	[0,"<pubkey hex>",<created_at>,<kind>,[[tag,...],...],"<content>"]
//
// There is no whitespace, non-ASCII text is written as raw UTF-8 and only the
// characters listed in escapeString are escaped.
func (evt Event) Serialize() []byte {
	dst := make([]byte, 4+64, 100+len(evt.Content)+len(evt.Tags)*80)

	// [0,"pubkey",created_at,kind,[
	copy(dst, `[0,"`)
	hex.Encode(dst[4:4+64], evt.PubKey[:])
	dst = append(dst, `",`...)
	dst = strconv.AppendInt(dst, int64(evt.CreatedAt), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(evt.Kind), 10)
	dst = append(dst, ',')

	dst = append(dst, '[')
	for i, tag := range evt.Tags {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '[')
		for i, s := range tag {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = escapeString(dst, s)
		}
		dst = append(dst, ']')
	}
	dst = append(dst, "],"...)

	dst = escapeString(dst, evt.Content)
	dst = append(dst, ']')

	return dst
}

const lowerHex = "0123456789abcdef"

// escapeString appends s as a JSON string following the NIP-01 rules:
// quote, backslash, \b, \t, \n, \f and \r get their short escapes, every other
// byte below 0x20 is written as \u00XX with lowercase hex and all the rest,
// including multi-byte UTF-8 sequences, is copied verbatim.
func escapeString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c >= 0x20:
			dst = append(dst, c)
		case c == '\b':
			dst = append(dst, '\\', 'b')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\f':
			dst = append(dst, '\\', 'f')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		default:
			dst = append(dst, '\\', 'u', '0', '0', lowerHex[c>>4], lowerHex[c&0xf])
		}
	}
	dst = append(dst, '"')
	return dst
}
