// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cvm

import (
	"github.com/Fantom-foundation/Contessa/go/contessa"
	lru "github.com/hashicorp/golang-lru/v2"
)

// keccakCache is an LRU governed fixed-capacity cache for Keccak-256 hashes.
// The cache maintains hashes of 32 and 64 byte inputs, which are the typical
// sizes of hashed storage keys and key pairs. Inputs of other sizes are hashed
// on demand without caching. The cache is thread-safe.
type keccakCache struct {
	cache32 *lru.Cache[[32]byte, contessa.Hash]
	cache64 *lru.Cache[[64]byte, contessa.Hash]
}

// newKeccakCache creates a keccakCache with the given capacities. Capacities
// below 2 are raised to 2.
func newKeccakCache(capacity32, capacity64 int) *keccakCache {
	cache32, _ := lru.New[[32]byte, contessa.Hash](max(capacity32, 2))
	cache64, _ := lru.New[[64]byte, contessa.Hash](max(capacity64, 2))
	return &keccakCache{cache32: cache32, cache64: cache64}
}

// hash fetches a cached hash or computes the hash for the provided data.
func (h *keccakCache) hash(data []byte) contessa.Hash {
	if h == nil {
		return Keccak256(data)
	}
	switch len(data) {
	case 32:
		return lookup(h.cache32, [32]byte(data), data)
	case 64:
		return lookup(h.cache64, [64]byte(data), data)
	}
	return Keccak256(data)
}

func lookup[K comparable](cache *lru.Cache[K, contessa.Hash], key K, data []byte) contessa.Hash {
	if hash, found := cache.Get(key); found {
		return hash
	}
	hash := Keccak256(data)
	cache.Add(key, hash)
	return hash
}
