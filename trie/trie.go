// Package trie implements the trie-level operations of the Modified Merkle
// Patricia Trie: insertion with node splitting/merging, lookup, root digest
// computation, and Merkle proof construction/verification. See package node
// for the node shape and its canonical encoding, and package nibble/
// hexprefix for the path codecs this package builds on.
package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"ethtrie/nibble"
	"ethtrie/node"
)

// Trie owns exactly one root node (Empty for a fresh Trie). All interior
// nodes are owned transitively by the root: no sharing, no cycles. Mutation
// always produces a new root; whether that root physically reuses unchanged
// subtrees is an implementation detail and is not part of the contract.
type Trie struct {
	root node.Node
	cfg  config
}

// New returns an empty Trie.
func New(opts ...Option) *Trie {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Trie{cfg: cfg}
}

// Insert adds or overwrites the value stored at key. key must be non-empty.
func (t *Trie) Insert(key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	path := nibble.FromBytes(key)
	newRoot, err := insert(t.root, path, value)
	if err != nil {
		return fmt.Errorf("trie: insert: %w", err)
	}
	t.root = newRoot
	log.Debug("trie insert", "key", fmt.Sprintf("%x", key), "valueLen", len(value))
	return nil
}

// insert descends n along path, returning the replacement subtree. It
// implements the case table in spec.md §4.4.1.
func insert(n node.Node, path []nibble.Nibble, value []byte) (node.Node, error) {
	switch cur := n.(type) {
	case nil:
		return node.NewLeaf(path, value), nil

	case *node.Leaf:
		k := nibble.CommonPrefixLen(cur.Path, path)
		if k == len(cur.Path) && k == len(path) {
			return node.NewLeaf(path, value), nil
		}
		return splitLeaf(cur, path, value, k), nil

	case *node.Branch:
		if len(path) == 0 {
			newBranch := cloneBranch(cur)
			newBranch.Value = value
			return newBranch, nil
		}
		idx := path[0]
		child, err := insert(cur.Children[idx], path[1:], value)
		if err != nil {
			return nil, err
		}
		newBranch := cloneBranch(cur)
		newBranch.Children[idx] = child
		return newBranch, nil

	case *node.Extension:
		return insertExtension(cur, path, value)

	default:
		invariantViolation(fmt.Sprintf("insert: unknown node type %T", n))
		return nil, nil
	}
}

// splitLeaf handles a Leaf whose path diverges from the inserted path after
// a common prefix of length k (spec.md §4.4.1, "Divergence build").
func splitLeaf(leaf *node.Leaf, path []nibble.Nibble, value []byte, k int) node.Node {
	branch := node.NewBranch()
	placeDivergence(branch, leaf.Path[k:], leaf.Value)
	placeDivergence(branch, path[k:], value)

	if k > 0 {
		return node.NewExtension(path[:k], branch)
	}
	return branch
}

// placeDivergence puts one side of a leaf split into branch: the branch's
// terminal value if suffix is exhausted, otherwise a new Leaf in the slot
// named by suffix's first nibble.
func placeDivergence(branch *node.Branch, suffix []nibble.Nibble, value []byte) {
	if len(suffix) == 0 {
		branch.Value = value
		return
	}
	branch.Children[suffix[0]] = node.NewLeaf(suffix[1:], value)
}

// insertExtension handles the two Extension cases from spec.md §4.4.1,
// "Extension split": a full prefix match recurses into Child, a partial
// match forces a new Branch at the divergence point.
func insertExtension(ext *node.Extension, path []nibble.Nibble, value []byte) (node.Node, error) {
	k := nibble.CommonPrefixLen(ext.Path, path)

	if k == len(ext.Path) {
		child, err := insert(ext.Child, path[k:], value)
		if err != nil {
			return nil, err
		}
		return mergeExtension(ext.Path, child), nil
	}

	branch := node.NewBranch()
	extTail := ext.Path[k:]
	pathTail := path[k:]

	if len(extTail) == 1 {
		branch.Children[extTail[0]] = ext.Child
	} else {
		branch.Children[extTail[0]] = node.NewExtension(extTail[1:], ext.Child)
	}

	if len(pathTail) == 0 {
		branch.Value = value
	} else {
		branch.Children[pathTail[0]] = node.NewLeaf(pathTail[1:], value)
	}

	if k > 0 {
		return node.NewExtension(ext.Path[:k], branch), nil
	}
	return branch, nil
}

// mergeExtension re-normalizes an Extension after its child has been
// replaced: Extension->Extension collapses into one Extension (invariant 4),
// and Extension->Leaf collapses into one Leaf (invariant 1; this path is
// unreachable from Insert alone, spec.md §4.4.1, and only exists here so the
// merge rule has one home shared with a future deletion implementation).
func mergeExtension(prefix []nibble.Nibble, child node.Node) node.Node {
	switch c := child.(type) {
	case *node.Extension:
		return node.NewExtension(nibble.Concat(prefix, c.Path), c.Child)
	case *node.Leaf:
		return node.NewLeaf(nibble.Concat(prefix, c.Path), c.Value)
	case *node.Branch:
		return node.NewExtension(prefix, c)
	default:
		invariantViolation(fmt.Sprintf("extension child resolved to unexpected type %T", child))
		return nil
	}
}

func cloneBranch(b *node.Branch) *node.Branch {
	nb := node.NewBranch()
	nb.Children = b.Children
	nb.Value = b.Value
	return nb
}

// Get returns the value stored at key, or ErrNotFound if key is absent.
func (t *Trie) Get(key []byte) ([]byte, error) {
	visited, err := t.path(key)
	if err != nil {
		return nil, err
	}
	switch last := visited[len(visited)-1].(type) {
	case *node.Leaf:
		return last.Value, nil
	case *node.Branch:
		return last.Value, nil
	default:
		invariantViolation(fmt.Sprintf("get: path terminated at unexpected type %T", last))
		return nil, nil
	}
}

// RootHash returns keccak256(canonical_encoding(root)); for a fresh Trie
// this is the well-known empty-trie hash (spec.md §4.3.1).
func (t *Trie) RootHash() []byte {
	return node.Hash(t.root)
}

// path walks n along key's nibble path, returning every node visited in
// order (root first). It returns ErrNotFound (with the partial path still
// populated) when the descent cannot reach a terminal match, and ErrEmptyKey
// for a zero-length key. GetProof and package batch both build on this
// single descent so the two can never disagree about which nodes a key
// touches.
func (t *Trie) path(key []byte) ([]node.Node, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	remaining := nibble.FromBytes(key)
	var visited []node.Node
	n := t.root

	for {
		if node.IsEmpty(n) {
			return visited, ErrNotFound
		}
		visited = append(visited, n)

		switch cur := n.(type) {
		case *node.Leaf:
			if !nibble.Equal(cur.Path, remaining) {
				return visited, ErrNotFound
			}
			return visited, nil

		case *node.Extension:
			if !nibble.HasPrefix(remaining, cur.Path) {
				return visited, ErrNotFound
			}
			remaining = remaining[len(cur.Path):]
			n = cur.Child

		case *node.Branch:
			if len(remaining) == 0 {
				if cur.Value == nil {
					return visited, ErrNotFound
				}
				return visited, nil
			}
			idx := remaining[0]
			remaining = remaining[1:]
			n = cur.Children[idx]

		default:
			invariantViolation(fmt.Sprintf("path: unknown node type %T", n))
		}
	}
}

// ProofPath exposes the node sequence visited while resolving key. It exists
// for callers outside this package (package batch) that need to reason
// about which nodes a proof would touch without re-deriving the encoding
// themselves.
func (t *Trie) ProofPath(key []byte) ([]node.Node, error) {
	return t.path(key)
}
