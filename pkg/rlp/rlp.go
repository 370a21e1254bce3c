// Package rlp implements the canonical length-prefixed encoding used by the
// receipts trie: items are either byte strings or ordered lists of items.
// Decoding is strict and rejects non-minimal length prefixes, since verifiers
// consume these bytes from untrusted sources.
package rlp

import (
	"errors"
	"fmt"
)

// ErrMalformedEncoding is returned when untrusted bytes fail to decode,
// including truncated, overrunning or non-canonical length prefixes.
var ErrMalformedEncoding = errors.New("rlp: malformed encoding")

// Kind tags the two item shapes.
type Kind uint8

const (
	String Kind = iota
	List
)

// Item is a node in the encoding tree: a byte string or a list of items.
type Item struct {
	Kind Kind
	Str  []byte
	List []Item
}

// Bytes wraps b as a string item.
func Bytes(b []byte) Item { return Item{Kind: String, Str: b} }

// Uint returns the canonical integer item: the minimal big-endian byte
// string of v, empty for zero.
func Uint(v uint64) Item {
	if v == 0 {
		return Item{Kind: String}
	}
	var buf [8]byte
	n := 0
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
		n++
		if v == 0 {
			break
		}
	}
	out := make([]byte, n)
	copy(out, buf[8-n:])
	return Item{Kind: String, Str: out}
}

// ListOf wraps items as a list item.
func ListOf(items ...Item) Item { return Item{Kind: List, List: items} }

// Encode produces the self-delimiting byte string for it.
func Encode(it Item) []byte { return appendItem(nil, it) }

// AppendUint appends the encoding of the canonical integer item for v.
// This is the trie key derivation for transaction indices.
func AppendUint(buf []byte, v uint64) []byte { return appendItem(buf, Uint(v)) }

func appendItem(buf []byte, it Item) []byte {
	if it.Kind == String {
		if len(it.Str) == 1 && it.Str[0] < 0x80 {
			return append(buf, it.Str[0])
		}
		buf = appendHeader(buf, 0x80, len(it.Str))
		return append(buf, it.Str...)
	}
	var payload []byte
	for _, el := range it.List {
		payload = appendItem(payload, el)
	}
	buf = appendHeader(buf, 0xc0, len(payload))
	return append(buf, payload...)
}

func appendHeader(buf []byte, base byte, n int) []byte {
	if n <= 55 {
		return append(buf, base+byte(n))
	}
	var size [8]byte
	sn := 0
	for v := uint64(n); v > 0; v >>= 8 {
		sn++
	}
	for i, v := sn-1, uint64(n); i >= 0; i-- {
		size[i] = byte(v)
		v >>= 8
	}
	buf = append(buf, base+55+byte(sn))
	return append(buf, size[:sn]...)
}

// Decode parses b into an item tree. The whole buffer must be consumed by
// exactly one item. Returned byte strings alias b.
func Decode(b []byte) (Item, error) {
	it, rest, err := decodeItem(b)
	if err != nil {
		return Item{}, err
	}
	if len(rest) != 0 {
		return Item{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformedEncoding, len(rest))
	}
	return it, nil
}

func decodeItem(b []byte) (Item, []byte, error) {
	if len(b) == 0 {
		return Item{}, nil, fmt.Errorf("%w: empty input", ErrMalformedEncoding)
	}
	b0 := b[0]
	switch {
	case b0 < 0x80:
		return Item{Kind: String, Str: b[:1]}, b[1:], nil

	case b0 <= 0xb7:
		n := int(b0 - 0x80)
		if len(b)-1 < n {
			return Item{}, nil, fmt.Errorf("%w: string overruns buffer", ErrMalformedEncoding)
		}
		s := b[1 : 1+n]
		if n == 1 && s[0] < 0x80 {
			return Item{}, nil, fmt.Errorf("%w: non-canonical single byte", ErrMalformedEncoding)
		}
		return Item{Kind: String, Str: s}, b[1+n:], nil

	case b0 <= 0xbf:
		n, rest, err := decodeLongLength(b, b0-0xb7)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{Kind: String, Str: rest[:n]}, rest[n:], nil

	case b0 <= 0xf7:
		n := int(b0 - 0xc0)
		if len(b)-1 < n {
			return Item{}, nil, fmt.Errorf("%w: list overruns buffer", ErrMalformedEncoding)
		}
		items, err := decodeListPayload(b[1 : 1+n])
		if err != nil {
			return Item{}, nil, err
		}
		return Item{Kind: List, List: items}, b[1+n:], nil

	default:
		n, rest, err := decodeLongLength(b, b0-0xf7)
		if err != nil {
			return Item{}, nil, err
		}
		items, err := decodeListPayload(rest[:n])
		if err != nil {
			return Item{}, nil, err
		}
		return Item{Kind: List, List: items}, rest[n:], nil
	}
}

// decodeLongLength reads a lenOfLen-byte payload length following b[0] and
// returns it together with the remaining buffer positioned at the payload.
func decodeLongLength(b []byte, lenOfLen byte) (int, []byte, error) {
	ll := int(lenOfLen)
	if len(b)-1 < ll {
		return 0, nil, fmt.Errorf("%w: truncated length prefix", ErrMalformedEncoding)
	}
	if b[1] == 0 {
		return 0, nil, fmt.Errorf("%w: length has leading zero", ErrMalformedEncoding)
	}
	var n uint64
	for _, d := range b[1 : 1+ll] {
		if n > (1<<56)-1 {
			return 0, nil, fmt.Errorf("%w: length out of range", ErrMalformedEncoding)
		}
		n = n<<8 | uint64(d)
	}
	if n <= 55 {
		return 0, nil, fmt.Errorf("%w: non-canonical long length", ErrMalformedEncoding)
	}
	rest := b[1+ll:]
	if uint64(len(rest)) < n {
		return 0, nil, fmt.Errorf("%w: payload overruns buffer", ErrMalformedEncoding)
	}
	return int(n), rest, nil
}

func decodeListPayload(payload []byte) ([]Item, error) {
	var items []Item
	for len(payload) > 0 {
		it, rest, err := decodeItem(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		payload = rest
	}
	return items, nil
}
