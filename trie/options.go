package trie

// config holds the trie's construction-time knobs. It is intentionally tiny:
// this is a library, not a service, so there is nothing here to load from a
// file or environment — see SPEC_FULL.md for why no config library is wired
// in.
type config struct {
	proofOfAbsence bool
}

// Option configures a Trie at construction time.
type Option func(*config)

// WithProofOfAbsence controls what GetProof returns when the requested key
// is absent. The source this engine follows simply returns "not found"
// (spec.md §9, "Open question — proof-of-absence"); passing true here
// instead returns the partial path walked to the point of divergence.
// VerifyProof checks inclusion only and returns false for such a path; no
// function in this package verifies absence. Off by default, matching the
// source's behavior.
func WithProofOfAbsence(enabled bool) Option {
	return func(c *config) { c.proofOfAbsence = enabled }
}
