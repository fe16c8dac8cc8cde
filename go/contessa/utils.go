// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package contessa

import (
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// HashCode computes the content address of a code blob.
func HashCode(code Code) Hash {
	return Hash(blake2b.Sum256(code))
}

// Blake2b256 hashes the concatenation of the given byte slices.
func Blake2b256(data ...[]byte) Hash {
	hasher, _ := blake2b.New256(nil)
	for _, cur := range data {
		hasher.Write(cur)
	}
	var res Hash
	hasher.Sum(res[:0])
	return res
}

func uitoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
