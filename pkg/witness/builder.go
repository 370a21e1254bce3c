package witness

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/circuits"
	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/mpt"
	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/receipt"
)

var (
	// ErrIndexOutOfRange is returned when the requested transaction index
	// is not below the block's receipt count.
	ErrIndexOutOfRange = errors.New("witness: transaction index out of range")

	// ErrReceiptsRootMismatch is returned when the locally built trie root
	// disagrees with the root the block header declares.
	ErrReceiptsRootMismatch = errors.New("witness: computed root does not match header receipts root")
)

func toU8Slice(b []byte) []uints.U8 {
	out := make([]uints.U8, len(b))
	for i, v := range b {
		out[i] = uints.NewU8(v)
	}
	return out
}

// BuildInput encodes every receipt, builds the block's receipts trie,
// extracts the inclusion proof for txIndex and flattens it into the
// circuit-boundary shape.
func BuildInput(receipts []receipt.Receipt, txIndex uint64) (*CircuitInput, error) {
	if txIndex >= uint64(len(receipts)) {
		return nil, fmt.Errorf("%w: index %d, %d receipts", ErrIndexOutOfRange, txIndex, len(receipts))
	}

	pairs := make([]mpt.Pair, len(receipts))
	for i := range receipts {
		enc, err := receipt.Encode(&receipts[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode receipt %d: %w", i, err)
		}
		pairs[i] = mpt.Pair{Key: receipt.TrieKey(uint64(i)), Value: enc}
	}

	root, store := mpt.Build(pairs)
	proof, err := mpt.Prove(root, store, pairs[txIndex].Key)
	if err != nil {
		return nil, fmt.Errorf("failed to prove index %d: %w", txIndex, err)
	}

	concat, lengths, total := Flatten(proof)
	return &CircuitInput{
		Root:             root,
		Key:              pairs[txIndex].Key,
		Value:            pairs[txIndex].Value,
		ProofNodes:       concat,
		ProofNodeLengths: lengths,
		ProofNodesLength: total,
	}, nil
}

// VerifyInput unflattens the proof and replays it against the claimed root,
// requiring the recovered value to equal the input's value. It needs
// nothing beyond the input itself.
func VerifyInput(in *CircuitInput) error {
	if in.ProofNodesLength != uint64(len(in.ProofNodes)) {
		return fmt.Errorf("%w: declared total %d, have %d bytes", ErrLengthMismatch, in.ProofNodesLength, len(in.ProofNodes))
	}
	nodes, err := Unflatten(in.ProofNodes, in.ProofNodeLengths)
	if err != nil {
		return err
	}
	value, err := mpt.VerifyProof(nodes, in.Root, in.Key)
	if err != nil {
		return err
	}
	if !bytes.Equal(value, in.Value) {
		return fmt.Errorf("%w: proven value differs from expected", mpt.ErrInvalidProof)
	}
	return nil
}

// Build fetches a block's receipts, cross-checks the header's declared
// receipts root against the locally built trie, and produces the witness
// bundle for txIndex.
func Build(ctx context.Context, rpcURL string, block, txIndex uint64) (*Bundle, error) {
	cli, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	receipts, err := FetchBlockReceipts(ctx, cli, block)
	if err != nil {
		return nil, err
	}
	declared, err := FetchReceiptsRoot(ctx, cli, block)
	if err != nil {
		return nil, err
	}

	input, err := BuildInput(receipts, txIndex)
	if err != nil {
		return nil, err
	}
	if input.Root != declared {
		return nil, fmt.Errorf("%w: built %s, header %s", ErrReceiptsRootMismatch, input.Root, declared)
	}
	if err := VerifyInput(input); err != nil {
		return nil, err
	}

	assignment := &circuits.ReceiptInclusionCircuit{
		ReceiptsRoot:     input.Root.Big(),
		TxIndex:          txIndex,
		Key:              toU8Slice(input.Key),
		Value:            toU8Slice(input.Value),
		ProofNodes:       toU8Slice(input.ProofNodes),
		ProofNodeLengths: make([]frontend.Variable, len(input.ProofNodeLengths)),
		ProofNodesLength: input.ProofNodesLength,
	}
	for i, l := range input.ProofNodeLengths {
		assignment.ProofNodeLengths[i] = l
	}

	full, err := frontend.NewWitness(assignment, circuits.Curve().ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to build witness: %w", err)
	}

	blue := &circuits.ReceiptInclusionCircuit{
		Key:              make([]uints.U8, len(input.Key)),
		Value:            make([]uints.U8, len(input.Value)),
		ProofNodes:       make([]uints.U8, len(input.ProofNodes)),
		ProofNodeLengths: make([]frontend.Variable, len(input.ProofNodeLengths)),
	}

	return &Bundle{Input: *input, Full: full, Blueprint: blue}, nil
}
