package trie

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"ethtrie/hexprefix"
	"ethtrie/nibble"
	"ethtrie/node"
)

// GetProof returns the ordered list of canonical node encodings forming the
// hash chain from the root to key's Leaf (spec.md §4.4.4): proof[0] is the
// root's encoding, proof[i+1] is the encoding of the node reached from
// proof[i] along key's path.
//
// A node whose own encoding is under 32 bytes is embedded directly in its
// parent's encoding rather than referenced by hash (spec.md §4.3), so it
// never gets a separate proof entry — VerifyProof recovers it by decoding
// the parent's own RLP in place (spec.md §4.4.5, "short-form child
// handling"). The root is the one exception: RootHash always hashes it
// regardless of size, so it always gets its own entry.
//
// If key is absent and the Trie was built with WithProofOfAbsence(true), the
// partial path walked up to the point of divergence is returned with a nil
// error; otherwise ErrNotFound is returned.
func (t *Trie) GetProof(key []byte) ([][]byte, error) {
	visited, err := t.path(key)
	if err != nil {
		if err == ErrNotFound && t.cfg.proofOfAbsence {
			return encodeAll(visited), nil
		}
		return nil, err
	}
	return encodeAll(visited), nil
}

func encodeAll(visited []node.Node) [][]byte {
	var proof [][]byte
	for i, n := range visited {
		enc := node.Encode(n)
		if i == 0 || len(enc) >= 32 {
			proof = append(proof, enc)
		}
	}
	return proof
}

// VerifyProof statically checks that proof is an unbroken hash chain from
// root to a Leaf carrying (key, value), per spec.md §4.4.5. It does not
// require a Trie instance.
func VerifyProof(root, key, value []byte, proof [][]byte) bool {
	if len(proof) == 0 {
		return bytes.Equal(root, node.EmptyRootHash) && len(value) == 0
	}

	remaining := nibble.FromBytes(key)
	cur := nodeRef{hash: root}
	idx := 0

	for {
		raw, ok := resolveRef(&cur, proof, &idx)
		if !ok {
			return false
		}

		switch len(raw) {
		case 17:
			if len(remaining) == 0 {
				v, _ := raw[16].([]byte)
				return bytes.Equal(v, value)
			}
			n := remaining[0]
			remaining = remaining[1:]
			cur = refFromItem(raw[n])
			if cur.isZero() {
				return false
			}

		case 2:
			hpBytes, ok := raw[0].([]byte)
			if !ok {
				return false
			}
			path, isLeaf, err := hexprefix.Decode(hpBytes)
			if err != nil {
				return false
			}

			if isLeaf {
				v, _ := raw[1].([]byte)
				return nibble.Equal(path, remaining) && bytes.Equal(v, value)
			}

			if !nibble.HasPrefix(remaining, path) {
				return false
			}
			remaining = remaining[len(path):]
			cur = refFromItem(raw[1])
			if cur.isZero() {
				return false
			}

		default:
			return false
		}
	}
}

// nodeRef is either a 32-byte hash that the next proof element must match
// (the common case), or a node structure already decoded inline from the
// parent's own RLP — the "short-form child" case in spec.md §4.4.5, where no
// separate proof element exists for an embedded child.
type nodeRef struct {
	hash   []byte
	inline []interface{}
}

func (r nodeRef) isZero() bool { return r.hash == nil && r.inline == nil }

func refFromItem(item interface{}) nodeRef {
	switch v := item.(type) {
	case []byte:
		if len(v) == 0 {
			return nodeRef{}
		}
		return nodeRef{hash: v}
	case []interface{}:
		return nodeRef{inline: v}
	default:
		return nodeRef{}
	}
}

// resolveRef returns the decoded RLP list cur refers to. For an inline
// reference it is already decoded, and simply returned. For a hash
// reference it consumes the next element of proof and requires its
// Keccak-256 digest to match cur.hash before decoding it.
func resolveRef(cur *nodeRef, proof [][]byte, idx *int) ([]interface{}, bool) {
	if cur.inline != nil {
		return cur.inline, true
	}

	if *idx >= len(proof) {
		return nil, false
	}
	e := proof[*idx]
	*idx++

	if !bytes.Equal(crypto.Keccak256(e), cur.hash) {
		return nil, false
	}

	var raw []interface{}
	if err := rlp.DecodeBytes(e, &raw); err != nil {
		return nil, false
	}
	return raw, true
}
