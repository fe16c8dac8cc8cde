// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fauna

import (
	"encoding/binary"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// contractAddress derives the address of a contract instantiated by the
// deployer. Without salt, the address depends on the deployer's nonce only;
// with salt, it depends on the salt and the code hash instead, making it
// predictable before deployment.
func contractAddress(deployer contessa.Address, nonce uint64, codeHash contessa.Hash, salt []byte) contessa.Address {
	if len(salt) == 0 {
		return contessa.Address(crypto.CreateAddress(common.Address(deployer), nonce))
	}
	return contessa.Address(crypto.CreateAddress2(common.Address(deployer), crypto.Keccak256Hash(salt), codeHash[:]))
}

// storageID derives the storage namespace of a contract. Including the
// deployer's nonce gives a re-instantiated contract a fresh namespace.
func storageID(address contessa.Address, nonce uint64) contessa.Hash {
	return contessa.Blake2b256(address[:], binary.BigEndian.AppendUint64(nil, nonce))
}
