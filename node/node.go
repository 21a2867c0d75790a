// Package node defines the four-variant Modified Merkle Patricia Trie node
// shape and its canonical RLP encoding, including the size-dependent
// embed-vs-hash node-reference rule.
package node

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"ethtrie/hexprefix"
	"ethtrie/nibble"
)

// Node is the tagged node type of the trie. A nil Node value represents the
// Empty variant; the non-nil concrete types are *Leaf, *Extension and
// *Branch. There is no separate Empty type because an absent subtree is
// exactly the Go zero value of the interface.
type Node interface {
	raw() []interface{}
}

// EmptyRootHash is keccak256(RLP("")), the canonical root digest of a trie
// holding no keys (Yellow Paper Appendix D, reproduced bit for bit).
var EmptyRootHash = mustDecodeHex("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// IsEmpty reports whether n is the Empty node variant.
func IsEmpty(n Node) bool { return n == nil }

// Leaf is a terminal node. Path is the remaining nibble suffix of the key
// (possibly empty); Value is the stored byte string.
type Leaf struct {
	Path  []nibble.Nibble
	Value []byte
}

// NewLeaf builds a Leaf, cloning path so the caller's slice can be reused.
func NewLeaf(path []nibble.Nibble, value []byte) *Leaf {
	return &Leaf{Path: nibble.Clone(path), Value: value}
}

func (l *Leaf) raw() []interface{} {
	return []interface{}{hexprefix.Encode(l.Path, true), l.Value}
}

// Extension compresses a non-empty shared nibble prefix ahead of Child.
// Child must be a *Branch once the trie has finished normalizing an
// operation (invariant 2 in spec.md §3.4); during the middle of a split it
// may transiently hold a non-Empty, non-Leaf node.
type Extension struct {
	Path  []nibble.Nibble
	Child Node
}

// NewExtension builds an Extension, cloning path so the caller's slice can be
// reused.
func NewExtension(path []nibble.Nibble, child Node) *Extension {
	return &Extension{Path: nibble.Clone(path), Child: child}
}

func (e *Extension) raw() []interface{} {
	return []interface{}{hexprefix.Encode(e.Path, false), ref(e.Child)}
}

// Branch has 16 positional child slots, one per nibble, plus an optional
// terminal value for keys whose path ends exactly at this branch.
type Branch struct {
	Children [16]Node
	Value    []byte
}

// NewBranch returns an empty, unpopulated Branch.
func NewBranch() *Branch {
	return &Branch{}
}

func (b *Branch) raw() []interface{} {
	out := make([]interface{}, 17)
	for i := 0; i < 16; i++ {
		if IsEmpty(b.Children[i]) {
			out[i] = []byte{}
		} else {
			out[i] = ref(b.Children[i])
		}
	}
	if b.Value == nil {
		out[16] = []byte{}
	} else {
		out[16] = b.Value
	}
	return out
}

// HasValue reports whether the branch carries a terminal value.
func (b *Branch) HasValue() bool { return b.Value != nil }

// OccupantCount returns how many of the branch's distinguishing contents
// (populated child slots, plus the terminal value if present) are occupied.
// A normalized branch (spec.md §3.4 invariant 3) must have at least two.
func (b *Branch) OccupantCount() int {
	n := 0
	for i := 0; i < 16; i++ {
		if !IsEmpty(b.Children[i]) {
			n++
		}
	}
	if b.HasValue() {
		n++
	}
	return n
}

// Encode returns the canonical RLP encoding of n. Empty encodes to the empty
// byte string (RLP 0x80).
func Encode(n Node) []byte {
	var v interface{}
	if IsEmpty(n) {
		v = []byte{}
	} else {
		v = n.raw()
	}
	enc, err := rlp.EncodeToBytes(v)
	if err != nil {
		// raw() only ever produces trees of []byte and []interface{}, which
		// rlp always knows how to encode; failing here means the node graph
		// itself is corrupt.
		panic(err)
	}
	return enc
}

// Hash returns keccak256(Encode(n)), the digest used as n's root-level
// commitment. Unlike ref, Hash always hashes regardless of encoded size
// (spec.md §4.3: "small roots are still hashed, unlike interior references").
func Hash(n Node) []byte {
	if IsEmpty(n) {
		return EmptyRootHash
	}
	return crypto.Keccak256(Encode(n))
}

// ref computes the node-reference form of n as embedded inside a parent's
// encoding: the raw RLP item itself if shorter than 32 bytes, otherwise the
// 32-byte Keccak-256 hash of the encoding. The 32-byte threshold is a
// protocol requirement, not an optimization; it must match bit for bit
// between builders and verifiers.
func ref(n Node) interface{} {
	if IsEmpty(n) {
		return []byte{}
	}
	enc := Encode(n)
	if len(enc) < 32 {
		return n.raw()
	}
	return crypto.Keccak256(enc)
}
