package types

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
)

// AccountProof is a Merkle-Patricia proof of an account in a state trie, as returned by eth_getProof.
type AccountProof struct {
	Proof [][]byte
}

// StorageProof is a Merkle-Patricia proof of a slot in an account storage trie.
type StorageProof struct {
	Proof [][]byte
}

func proofDB(proof [][]byte) *memorydb.Database {
	db := memorydb.New()
	for _, node := range proof {
		// nodes are keyed by their hash, a node absent from the set fails the walk
		if err := db.Put(crypto.Keccak256(node), node); err != nil {
			panic(err)
		}
	}
	return db
}

// VerifyAccountStorageRoot verifies that address exists in the state trie committed to by
// stateRoot and returns the root of its storage trie.
func VerifyAccountStorageRoot(stateRoot common.Hash, address common.Address, proof AccountProof) (common.Hash, error) {
	if len(proof.Proof) == 0 {
		return common.Hash{}, errorsmod.Wrap(ErrInvalidAccountProof, "proof cannot be empty")
	}

	value, err := trie.VerifyProof(stateRoot, crypto.Keccak256(address.Bytes()), proofDB(proof.Proof))
	if err != nil {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidAccountProof, "account %s: %s", address, err)
	}
	if len(value) == 0 {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidAccountProof, "account %s does not exist under state root %s", address, stateRoot)
	}

	var account types.StateAccount
	if err := rlp.DecodeBytes(value, &account); err != nil {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidAccountProof, "cannot decode account %s: %s", address, err)
	}

	return account.Root, nil
}

// VerifyStorageMembership verifies that slot holds value in the storage trie committed to by storageRoot.
func VerifyStorageMembership(storageRoot common.Hash, slot common.Hash, value common.Hash, proof StorageProof) error {
	if value == (common.Hash{}) {
		return errorsmod.Wrap(ErrStorageValueMismatch, "zero values are not stored and cannot be proven")
	}

	proven, err := verifyStorage(storageRoot, slot, proof)
	if err != nil {
		return err
	}

	if !bytes.Equal(proven.Bytes(), value.Bytes()) {
		return errorsmod.Wrapf(ErrStorageValueMismatch, "slot %s: expected %s, got %s", slot, value, proven)
	}

	return nil
}

// VerifyStorageNonMembership verifies that slot is empty in the storage trie committed to by storageRoot.
func VerifyStorageNonMembership(storageRoot common.Hash, slot common.Hash, proof StorageProof) error {
	proven, err := verifyStorage(storageRoot, slot, proof)
	if err != nil {
		return err
	}

	if proven != (common.Hash{}) {
		return errorsmod.Wrapf(ErrStorageValueMismatch, "slot %s is set to %s", slot, proven)
	}

	return nil
}

func verifyStorage(storageRoot common.Hash, slot common.Hash, proof StorageProof) (common.Hash, error) {
	if len(proof.Proof) == 0 {
		return common.Hash{}, errorsmod.Wrap(ErrInvalidStorageProof, "proof cannot be empty")
	}

	value, err := trie.VerifyProof(storageRoot, crypto.Keccak256(slot.Bytes()), proofDB(proof.Proof))
	if err != nil {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidStorageProof, "slot %s: %s", slot, err)
	}
	if len(value) == 0 {
		return common.Hash{}, nil
	}

	// storage values are RLP encoded byte strings with leading zeroes trimmed
	var content []byte
	if err := rlp.DecodeBytes(value, &content); err != nil {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidStorageProof, "cannot decode value of slot %s: %s", slot, err)
	}
	if len(content) > common.HashLength {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidStorageProof, "value of slot %s exceeds 32 bytes", slot)
	}

	return common.BytesToHash(content), nil
}

// MappingStorageSlot returns the storage slot of key in a Solidity mapping declared at slot:
// keccak256(key || slot).
func MappingStorageSlot(key common.Hash, slot *uint256.Int) common.Hash {
	slotBz := slot.Bytes32()
	return crypto.Keccak256Hash(key.Bytes(), slotBz[:])
}

// CommitmentStorageSlot returns the slot under which an IBC handler contract storing its
// commitments in a mapping(bytes32 => bytes32) at commitmentSlot commits path.
func CommitmentStorageSlot(commitmentSlot *uint256.Int, path []byte) common.Hash {
	return MappingStorageSlot(crypto.Keccak256Hash(path), commitmentSlot)
}
