package circuits

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
)

func Curve() ecc.ID { return ecc.BN254 }

// ReceiptInclusionCircuit declares the flattened receipt-inclusion layout
// the downstream circuit consumes. Proof nodes travel as one concatenated
// byte array plus per-node lengths, because the circuit cannot parse
// self-delimiting structures natively.
type ReceiptInclusionCircuit struct {
	ReceiptsRoot frontend.Variable `gnark:",public"`
	TxIndex      frontend.Variable `gnark:",public"`

	Key              []uints.U8
	Value            []uints.U8
	ProofNodes       []uints.U8 // concatenation, re-split via ProofNodeLengths
	ProofNodeLengths []frontend.Variable
	ProofNodesLength frontend.Variable
}

func (c *ReceiptInclusionCircuit) Define(api frontend.API) error {
	// the length bookkeeping must be consistent before the node bytes mean anything
	total := frontend.Variable(0)
	for _, l := range c.ProofNodeLengths {
		total = api.Add(total, l)
	}
	api.AssertIsEqual(total, c.ProofNodesLength)
	api.AssertIsEqual(c.ProofNodesLength, len(c.ProofNodes))
	return nil
}
