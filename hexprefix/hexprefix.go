// Package hexprefix implements Ethereum's Hex-Prefix (HP) encoding: a
// compact byte-string encoding of a nibble path tagged with whether it
// terminates a Leaf or passes through an Extension.
package hexprefix

import (
	"errors"

	"ethtrie/nibble"
)

// ErrEmptyInput is returned by Decode when given a zero-length byte string,
// which can never be a valid HP encoding (even an empty path encodes to at
// least one flag byte).
var ErrEmptyInput = errors.New("hexprefix: empty input")

// Encode packs path together with the isLeaf tag into its compact byte-string
// form, per the flag-nibble table:
//
//	isLeaf  parity  flag  layout
//	false   even    0x0   0x00, then nibble pairs
//	false   odd     0x1   0x1<first>, then nibble pairs
//	true    even    0x2   0x20, then nibble pairs
//	true    odd     0x3   0x3<first>, then nibble pairs
func Encode(path []nibble.Nibble, isLeaf bool) []byte {
	var flag nibble.Nibble
	if isLeaf {
		flag = 2
	}

	odd := len(path)%2 == 1

	var prefixed []nibble.Nibble
	if odd {
		prefixed = make([]nibble.Nibble, 0, len(path)+1)
		prefixed = append(prefixed, flag+1)
		prefixed = append(prefixed, path...)
	} else {
		prefixed = make([]nibble.Nibble, 0, len(path)+2)
		prefixed = append(prefixed, flag, 0)
		prefixed = append(prefixed, path...)
	}

	// prefixed now always has even length, guaranteed by construction above.
	b, err := nibble.ToBytes(prefixed)
	if err != nil {
		// unreachable: prefixed is constructed with even length above.
		panic(err)
	}
	return b
}

// Decode recovers the (path, isLeaf) pair that Encode produced. It returns
// ErrEmptyInput for a zero-length byte string.
func Decode(b []byte) (path []nibble.Nibble, isLeaf bool, err error) {
	if len(b) == 0 {
		return nil, false, ErrEmptyInput
	}

	full := nibble.FromBytes(b)
	flag := full[0]

	switch flag {
	case 0:
		return full[2:], false, nil
	case 1:
		return full[1:], false, nil
	case 2:
		return full[2:], true, nil
	case 3:
		return full[1:], true, nil
	default:
		return nil, false, errors.New("hexprefix: invalid flag nibble")
	}
}
