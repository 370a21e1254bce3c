// Package mpt implements the Merkle-Patricia trie used to commit to a
// block's receipts: building from (key, value) pairs, root computation,
// inclusion-proof extraction and store-free proof verification.
package mpt

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/rlp"
)

// EmptyRootHash is the root of a trie holding no values: the Keccak256 of
// the canonical encoding of the empty node.
var EmptyRootHash = common.HexToHash("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// Pair is one (key, value) insertion.
type Pair struct {
	Key   []byte
	Value []byte
}

// Trie is a caller-owned, single-build trie. It is not safe for concurrent
// mutation; Hash commits it and the resulting (root, store) pair is
// read-only from then on.
type Trie struct {
	root  node
	store *Store
}

func New() *Trie {
	return &Trie{store: NewStore()}
}

// Store exposes the content-addressed store populated by Hash.
func (t *Trie) Store() *Store { return t.store }

// Update inserts value under key. Keys within one build are pairwise
// distinct; inserting the same key again replaces its value.
func (t *Trie) Update(key, value []byte) {
	t.root = insert(t.root, keyToNibbles(key), value)
}

// Hash canonically encodes every node bottom-up, stores encodings of 32
// bytes and over under their Keccak256 hash, and returns the root hash.
// The root node is stored unconditionally so proofs can start from it.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return EmptyRootHash
	}
	return t.store.put(rlp.Encode(t.encode(t.root)))
}

// Build constructs a fresh trie from pairs and returns its root and store.
// The root is a function of the key-value set alone, not of pair order.
func Build(pairs []Pair) (common.Hash, *Store) {
	t := New()
	for _, p := range pairs {
		t.Update(p.Key, p.Value)
	}
	return t.Hash(), t.store
}

func insert(n node, path []byte, value []byte) node {
	switch n := n.(type) {
	case nil:
		return &leafNode{path: path, value: value}

	case *leafNode:
		matched := prefixLen(n.path, path)
		if matched == len(n.path) && matched == len(path) {
			n.value = value
			return n
		}
		// split into a branch, keeping any shared prefix as an extension
		branch := &branchNode{}
		if matched == len(n.path) {
			branch.value = n.value
		} else {
			branch.children[n.path[matched]] = &leafNode{path: n.path[matched+1:], value: n.value}
		}
		if matched == len(path) {
			branch.value = value
		} else {
			branch.children[path[matched]] = &leafNode{path: path[matched+1:], value: value}
		}
		if matched > 0 {
			return &extensionNode{path: path[:matched], child: branch}
		}
		return branch

	case *extensionNode:
		matched := prefixLen(n.path, path)
		if matched == len(n.path) {
			n.child = insert(n.child, path[matched:], value)
			return n
		}
		// diverges inside the shared path: split analogously to the leaf case
		branch := &branchNode{}
		if len(n.path) > matched+1 {
			branch.children[n.path[matched]] = &extensionNode{path: n.path[matched+1:], child: n.child}
		} else {
			branch.children[n.path[matched]] = n.child
		}
		if matched == len(path) {
			branch.value = value
		} else {
			branch.children[path[matched]] = &leafNode{path: path[matched+1:], value: value}
		}
		if matched > 0 {
			return &extensionNode{path: path[:matched], child: branch}
		}
		return branch

	case *branchNode:
		if len(path) == 0 {
			n.value = value
			return n
		}
		n.children[path[0]] = insert(n.children[path[0]], path[1:], value)
		return n

	default:
		panic("mpt: insert into committed node")
	}
}

// encode returns the canonical item for n, committing hashed children to
// the store as a side effect.
func (t *Trie) encode(n node) rlp.Item {
	switch n := n.(type) {
	case *leafNode:
		return rlp.ListOf(rlp.Bytes(hexToCompact(n.path, true)), rlp.Bytes(n.value))
	case *extensionNode:
		return rlp.ListOf(rlp.Bytes(hexToCompact(n.path, false)), t.ref(n.child))
	case *branchNode:
		items := make([]rlp.Item, 17)
		for i, c := range n.children {
			if c == nil {
				items[i] = rlp.Bytes(nil)
			} else {
				items[i] = t.ref(c)
			}
		}
		items[16] = rlp.Bytes(n.value)
		return rlp.Item{Kind: rlp.List, List: items}
	default:
		panic("mpt: encode of committed node")
	}
}

// ref embeds children whose encoding stays under 32 bytes and replaces the
// rest with the 32-byte hash of their encoding. The threshold must match
// the reference trie exactly or roots diverge.
func (t *Trie) ref(n node) rlp.Item {
	it := t.encode(n)
	enc := rlp.Encode(it)
	if len(enc) < 32 {
		return it
	}
	h := t.store.put(enc)
	return rlp.Bytes(h.Bytes())
}
