package witness

import (
	backendwitness "github.com/consensys/gnark/backend/witness"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/circuits"
)

// CircuitInput is the flattened, length-annotated proof shape handed to the
// circuit boundary: concatenated node bytes plus per-node lengths so a
// consumer without delimiter support can re-split them.
type CircuitInput struct {
	Root             common.Hash   `json:"root"`
	Key              hexutil.Bytes `json:"key"`
	Value            hexutil.Bytes `json:"value"`
	ProofNodes       hexutil.Bytes `json:"proofNodes"`
	ProofNodeLengths []uint64      `json:"proofNodeLengths"`
	ProofNodesLength uint64        `json:"proofNodesLength"`
}

type Bundle struct {
	Input     CircuitInput
	Full      backendwitness.Witness
	Blueprint *circuits.ReceiptInclusionCircuit
}
