package types

import (
	errorsmod "cosmossdk.io/errors"
)

const (
	// WasmStoreKey is the multistore key of the module storing contract state.
	WasmStoreKey = "wasm"

	// ContractStorePrefix is the namespace tag of contract storage within the wasm store.
	ContractStorePrefix byte = 0x03

	// CommitmentKeyVersion is the version discriminant of the commitment key layout.
	CommitmentKeyVersion byte = 0x00
)

// ContractCommitmentKey returns the store key under which a contract commits key:
//
//	ContractStorePrefix || CommitmentKeyVersion || address || key
//
// Proofs are generated by the counterparty over exactly these bytes, any deviation
// makes a proof for one contract usable for another.
func ContractCommitmentKey(address, key []byte) []byte {
	bz := make([]byte, 0, 2+len(address)+len(key))
	bz = append(bz, ContractStorePrefix, CommitmentKeyVersion)
	bz = append(bz, address...)
	bz = append(bz, key...)
	return bz
}

// NewContractMerklePath returns the path of key committed by the contract at address,
// rooted at the wasm store of the counterparty's multistore.
func NewContractMerklePath(address, key []byte) (MerklePath, error) {
	if len(address) == 0 {
		return MerklePath{}, errorsmod.Wrap(ErrInvalidPath, "contract address cannot be empty")
	}
	if len(key) == 0 {
		return MerklePath{}, errorsmod.Wrap(ErrInvalidPath, "key cannot be empty")
	}

	return NewMerklePath([]byte(WasmStoreKey), ContractCommitmentKey(address, key)), nil
}
