// Package receipt maps raw transaction receipts to the canonical byte
// strings the receipts trie commits to, including the EIP-2718 type prefix
// for non-legacy receipts.
package receipt

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/rlp"
)

// Known receipt type bytes. Anything above SetCodeTxType is rejected.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
	BlobTxType       = 0x03
	SetCodeTxType    = 0x04
)

// BloomByteLength is the size of the logs bloom bitmap.
const BloomByteLength = 256

// ErrUnsupportedType is returned for receipt types outside the known set.
var ErrUnsupportedType = errors.New("receipt: unsupported receipt type")

// Log is one event entry of a receipt.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// Receipt holds the consensus fields of a post-Byzantium receipt.
type Receipt struct {
	Type              uint8
	Status            uint64 // 1 success, 0 failure
	CumulativeGasUsed uint64
	Bloom             [BloomByteLength]byte
	Logs              []Log
}

// Encode returns the canonical receipt encoding: the RLP of
// [status, cumulativeGasUsed, bloom, logs], prefixed with the single type
// byte when the receipt is not legacy. Omitting that prefix for a typed
// receipt changes the trie root, so it is applied unconditionally here.
func Encode(r *Receipt) ([]byte, error) {
	if r.Type > SetCodeTxType {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedType, r.Type)
	}

	logs := make([]rlp.Item, len(r.Logs))
	for i, lg := range r.Logs {
		topics := make([]rlp.Item, len(lg.Topics))
		for j := range lg.Topics {
			topics[j] = rlp.Bytes(lg.Topics[j][:])
		}
		logs[i] = rlp.ListOf(
			rlp.Bytes(lg.Address[:]),
			rlp.Item{Kind: rlp.List, List: topics},
			rlp.Bytes(lg.Data),
		)
	}

	// status encodes as the empty string for failure and 0x01 for success
	enc := rlp.Encode(rlp.ListOf(
		rlp.Uint(r.Status),
		rlp.Uint(r.CumulativeGasUsed),
		rlp.Bytes(r.Bloom[:]),
		rlp.Item{Kind: rlp.List, List: logs},
	))

	if r.Type == LegacyTxType {
		return enc, nil
	}
	return append([]byte{r.Type}, enc...), nil
}

// TrieKey derives the receipts-trie key for a transaction index: the RLP
// encoding of the index as a canonical integer.
func TrieKey(txIndex uint64) []byte {
	return rlp.AppendUint(nil, txIndex)
}
