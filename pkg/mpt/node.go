package mpt

import (
	"fmt"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/rlp"
)

// node is the sum type over the four trie node variants. A nil node is the
// empty subtree.
type node interface{}

type (
	leafNode struct {
		path  []byte // remaining nibbles
		value []byte
	}
	extensionNode struct {
		path  []byte // shared nibbles
		child node
	}
	branchNode struct {
		children [16]node
		value    []byte // the 17th slot
	}
	// hashNode is a 32-byte reference resolved through a store.
	hashNode []byte
)

// keyToNibbles splits each key byte into its two 4-bit halves.
func keyToNibbles(key []byte) []byte {
	out := make([]byte, 2*len(key))
	for i, b := range key {
		out[2*i] = b >> 4
		out[2*i+1] = b & 0x0f
	}
	return out
}

func prefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// hexToCompact encodes a nibble path plus the leaf flag into the hex-prefix
// form committed to inside node encodings. The flag nibble carries the leaf
// bit (2) and the oddness bit (1); odd paths pack their first nibble into
// the flag byte.
func hexToCompact(nibbles []byte, leaf bool) []byte {
	flag := byte(0)
	if leaf {
		flag = 2
	}
	out := make([]byte, 0, len(nibbles)/2+1)
	if len(nibbles)%2 == 1 {
		out = append(out, (flag|1)<<4|nibbles[0])
		nibbles = nibbles[1:]
	} else {
		out = append(out, flag<<4)
	}
	for i := 0; i < len(nibbles); i += 2 {
		out = append(out, nibbles[i]<<4|nibbles[i+1])
	}
	return out
}

// compactToHex is the strict inverse of hexToCompact. The padding nibble of
// an even path must be zero.
func compactToHex(compact []byte) (nibbles []byte, leaf bool, err error) {
	if len(compact) == 0 {
		return nil, false, fmt.Errorf("%w: empty compact path", rlp.ErrMalformedEncoding)
	}
	flag := compact[0] >> 4
	if flag > 3 {
		return nil, false, fmt.Errorf("%w: bad hex-prefix flag %#x", rlp.ErrMalformedEncoding, flag)
	}
	leaf = flag&2 != 0
	nibbles = make([]byte, 0, 2*len(compact))
	if flag&1 == 1 {
		nibbles = append(nibbles, compact[0]&0x0f)
	} else if compact[0]&0x0f != 0 {
		return nil, false, fmt.Errorf("%w: non-zero hex-prefix padding", rlp.ErrMalformedEncoding)
	}
	for _, b := range compact[1:] {
		nibbles = append(nibbles, b>>4, b&0x0f)
	}
	return nibbles, leaf, nil
}
