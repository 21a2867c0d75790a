package trie

import "errors"

// ErrNotFound is returned by Get and GetProof when the requested key is not
// present in the trie. It is a reported outcome, never fatal.
var ErrNotFound = errors.New("trie: key not found")

// ErrEmptyKey is returned by Insert and Get for a zero-length key. Empty
// keys are rejected rather than silently mapped to the root's terminal
// value, which would make an empty-path Leaf ambiguous with a Branch value.
var ErrEmptyKey = errors.New("trie: key must not be empty")

// errInvariant signals a bug in the trie's own invariant maintenance (e.g. an
// Extension ending up with a non-Branch child after normalization). It is
// never returned to a caller; it is only ever passed to panic.
type errInvariant struct{ msg string }

func (e *errInvariant) Error() string { return "trie: invariant violation: " + e.msg }

func invariantViolation(msg string) {
	panic(&errInvariant{msg: msg})
}
