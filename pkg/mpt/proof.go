package mpt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/rlp"
)

var (
	// ErrKeyNotFound is returned when a proof is requested for a key the
	// trie does not hold.
	ErrKeyNotFound = errors.New("mpt: key not found")

	// ErrInvalidProof is returned when proof replay fails: a broken hash
	// chain, a path that ends before the key is consumed, or a value that
	// does not match.
	ErrInvalidProof = errors.New("mpt: invalid proof")

	// ErrRootMismatch marks the specific case of a well-formed proof whose
	// first node does not hash to the claimed root.
	ErrRootMismatch = fmt.Errorf("%w: root mismatch", ErrInvalidProof)
)

// Prove walks from root to the node holding key and returns the canonical
// encodings of the visited nodes in root-to-leaf order. Inline children are
// embedded in their parent's encoding and add no list entry of their own.
func Prove(root common.Hash, store *Store, key []byte) ([][]byte, error) {
	if root == EmptyRootHash {
		return nil, ErrKeyNotFound
	}
	enc, ok := store.Get(root)
	if !ok {
		return nil, fmt.Errorf("mpt: missing trie node %x", root)
	}
	n, err := decodeNode(enc)
	if err != nil {
		return nil, err
	}

	proof := [][]byte{enc}
	path := keyToNibbles(key)
	for {
		switch cur := n.(type) {
		case *leafNode:
			if !bytes.Equal(cur.path, path) {
				return nil, ErrKeyNotFound
			}
			return proof, nil
		case *extensionNode:
			if len(path) < len(cur.path) || !bytes.Equal(cur.path, path[:len(cur.path)]) {
				return nil, ErrKeyNotFound
			}
			path = path[len(cur.path):]
			n = cur.child
		case *branchNode:
			if len(path) == 0 {
				if len(cur.value) == 0 {
					return nil, ErrKeyNotFound
				}
				return proof, nil
			}
			n = cur.children[path[0]]
			path = path[1:]
		case nil:
			return nil, ErrKeyNotFound
		case hashNode:
			enc, ok = store.Get(common.BytesToHash(cur))
			if !ok {
				return nil, fmt.Errorf("mpt: missing trie node %x", []byte(cur))
			}
			proof = append(proof, enc)
			if n, err = decodeNode(enc); err != nil {
				return nil, err
			}
		}
	}
}

// VerifyProof replays proofNodes from the claimed root along key and
// returns the value proven to sit at key. It is a pure function of its
// arguments: the original build's store is not consulted. Malformed node
// bytes surface as ErrMalformedEncoding, everything else as ErrInvalidProof.
func VerifyProof(proofNodes [][]byte, root common.Hash, key []byte) ([]byte, error) {
	if len(proofNodes) == 0 {
		return nil, fmt.Errorf("%w: empty proof", ErrInvalidProof)
	}

	// virtual store: every supplied node keyed by its own hash
	virtual := make(map[common.Hash][]byte, len(proofNodes))
	for _, enc := range proofNodes {
		virtual[common.BytesToHash(crypto.Keccak256(enc))] = enc
	}

	if common.BytesToHash(crypto.Keccak256(proofNodes[0])) != root {
		return nil, ErrRootMismatch
	}
	n, err := decodeNode(proofNodes[0])
	if err != nil {
		return nil, err
	}

	path := keyToNibbles(key)
	for {
		switch cur := n.(type) {
		case *leafNode:
			if !bytes.Equal(cur.path, path) {
				return nil, fmt.Errorf("%w: leaf path diverges from key", ErrInvalidProof)
			}
			return cur.value, nil
		case *extensionNode:
			if len(path) < len(cur.path) || !bytes.Equal(cur.path, path[:len(cur.path)]) {
				return nil, fmt.Errorf("%w: extension path diverges from key", ErrInvalidProof)
			}
			path = path[len(cur.path):]
			n = cur.child
		case *branchNode:
			if len(path) == 0 {
				if len(cur.value) == 0 {
					return nil, fmt.Errorf("%w: branch holds no value for key", ErrInvalidProof)
				}
				return cur.value, nil
			}
			n = cur.children[path[0]]
			path = path[1:]
		case nil:
			return nil, fmt.Errorf("%w: path ends before key is consumed", ErrInvalidProof)
		case hashNode:
			enc, ok := virtual[common.BytesToHash(cur)]
			if !ok {
				return nil, fmt.Errorf("%w: referenced node missing from proof", ErrInvalidProof)
			}
			if n, err = decodeNode(enc); err != nil {
				return nil, err
			}
		}
	}
}

func decodeNode(enc []byte) (node, error) {
	it, err := rlp.Decode(enc)
	if err != nil {
		return nil, err
	}
	return nodeFromItem(it)
}

func nodeFromItem(it rlp.Item) (node, error) {
	if it.Kind != rlp.List {
		return nil, fmt.Errorf("%w: trie node must be a list", rlp.ErrMalformedEncoding)
	}
	switch len(it.List) {
	case 2:
		if it.List[0].Kind != rlp.String {
			return nil, fmt.Errorf("%w: node path must be a byte string", rlp.ErrMalformedEncoding)
		}
		nibbles, leaf, err := compactToHex(it.List[0].Str)
		if err != nil {
			return nil, err
		}
		if leaf {
			if it.List[1].Kind != rlp.String {
				return nil, fmt.Errorf("%w: leaf value must be a byte string", rlp.ErrMalformedEncoding)
			}
			return &leafNode{path: nibbles, value: it.List[1].Str}, nil
		}
		child, err := refFromItem(it.List[1])
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, fmt.Errorf("%w: extension node without child", rlp.ErrMalformedEncoding)
		}
		return &extensionNode{path: nibbles, child: child}, nil

	case 17:
		b := &branchNode{}
		for i := 0; i < 16; i++ {
			c, err := refFromItem(it.List[i])
			if err != nil {
				return nil, err
			}
			b.children[i] = c
		}
		if it.List[16].Kind != rlp.String {
			return nil, fmt.Errorf("%w: branch value must be a byte string", rlp.ErrMalformedEncoding)
		}
		b.value = it.List[16].Str
		return b, nil

	default:
		return nil, fmt.Errorf("%w: trie node has %d items", rlp.ErrMalformedEncoding, len(it.List))
	}
}

// refFromItem resolves a child slot: the empty string is no subtree, a
// 32-byte string is a hashed reference, and a nested list is an inline
// child whose encoding must stay under the hashing threshold.
func refFromItem(it rlp.Item) (node, error) {
	if it.Kind == rlp.String {
		switch len(it.Str) {
		case 0:
			return nil, nil
		case 32:
			return hashNode(it.Str), nil
		default:
			return nil, fmt.Errorf("%w: node reference must be empty or 32 bytes", rlp.ErrMalformedEncoding)
		}
	}
	if len(rlp.Encode(it)) >= 32 {
		return nil, fmt.Errorf("%w: oversized inline node", rlp.ErrMalformedEncoding)
	}
	return nodeFromItem(it)
}
