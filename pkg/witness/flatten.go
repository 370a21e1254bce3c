package witness

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when the per-node lengths of a flattened
// proof disagree with the concatenated byte count.
var ErrLengthMismatch = errors.New("witness: proof length mismatch")

// Flatten concatenates nodes in order and records each node's exact byte
// length alongside the total.
func Flatten(nodes [][]byte) (concat []byte, lengths []uint64, total uint64) {
	lengths = make([]uint64, len(nodes))
	for i, n := range nodes {
		concat = append(concat, n...)
		lengths[i] = uint64(len(n))
		total += uint64(len(n))
	}
	return concat, lengths, total
}

// Unflatten re-splits concat according to lengths; the exact inverse of
// Flatten.
func Unflatten(concat []byte, lengths []uint64) ([][]byte, error) {
	var sum uint64
	for _, l := range lengths {
		s := sum + l
		if s < sum {
			return nil, fmt.Errorf("%w: lengths overflow", ErrLengthMismatch)
		}
		sum = s
	}
	if sum != uint64(len(concat)) {
		return nil, fmt.Errorf("%w: lengths sum to %d, have %d bytes", ErrLengthMismatch, sum, len(concat))
	}
	nodes := make([][]byte, len(lengths))
	off := uint64(0)
	for i, l := range lengths {
		nodes[i] = concat[off : off+l]
		off += l
	}
	return nodes, nil
}
