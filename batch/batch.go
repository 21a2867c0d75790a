// Package batch adapts the teacher repository's clustered-trie "required
// hashes" accounting onto the new trie engine: given a trie already holding
// a batch of transactions, how many distinct node encodings does a combined
// proof for several of those transactions need to carry, once nodes shared
// by more than one of their root-to-leaf paths are only counted once.
package batch

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"ethtrie/node"
	"ethtrie/trie"
)

// BuildFromTransactions inserts every transaction in txs into t, keyed by its
// hash and valued by its binary encoding, mirroring the teacher's
// BuildMPTTree but against the new node model.
func BuildFromTransactions(t *trie.Trie, txs []*types.Transaction) error {
	for _, tx := range txs {
		data, err := tx.MarshalBinary()
		if err != nil {
			return fmt.Errorf("batch: marshal transaction %s: %w", tx.Hash(), err)
		}
		if err := t.Insert(tx.Hash().Bytes(), data); err != nil {
			return fmt.Errorf("batch: insert transaction %s: %w", tx.Hash(), err)
		}
	}
	return nil
}

// RequiredProofNodes returns the number of distinct node encodings a combined
// proof for every key in keys would need to carry. Keys whose root-to-leaf
// paths overlap (share an ancestor Extension or Branch) count that shared
// node only once, generalizing the teacher's calculateHashes recursion
// (which counted shared subtrees for a batch of transaction hashes) from a
// boolean/counter walk into a set-counting one over the new four-variant
// node model.
func RequiredProofNodes(t *trie.Trie, keys [][]byte) (int, error) {
	seen := make(map[node.Node]struct{})
	for _, key := range keys {
		visited, err := t.ProofPath(key)
		if err != nil {
			return 0, fmt.Errorf("batch: proof path for %x: %w", key, err)
		}
		for _, n := range visited {
			seen[n] = struct{}{}
		}
	}
	return len(seen), nil
}
