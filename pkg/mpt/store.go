package mpt

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Store is an in-memory content-addressed node store. It lives for one
// build/proof cycle; identical subtrees collapse to a single entry.
type Store struct {
	nodes map[common.Hash][]byte
}

func NewStore() *Store {
	return &Store{nodes: make(map[common.Hash][]byte)}
}

// put records enc under its Keccak256 hash and returns that hash. Entries
// are write-once: a hash already present keeps its bytes.
func (s *Store) put(enc []byte) common.Hash {
	h := common.BytesToHash(crypto.Keccak256(enc))
	if _, ok := s.nodes[h]; !ok {
		s.nodes[h] = enc
	}
	return h
}

// Get returns the encoded node stored under h.
func (s *Store) Get(h common.Hash) ([]byte, bool) {
	enc, ok := s.nodes[h]
	return enc, ok
}

// Len reports the number of distinct stored nodes.
func (s *Store) Len() int { return len(s.nodes) }
