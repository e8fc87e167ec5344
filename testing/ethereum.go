package ibctesting

import (
	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"

	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
)

// proofList collects the nodes written by trie.Prove.
type proofList [][]byte

func (n *proofList) Put(key []byte, value []byte) error {
	*n = append(*n, value)
	return nil
}

func (n *proofList) Delete(key []byte) error {
	panic("not supported")
}

func newTrie() *trie.Trie {
	return trie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil))
}

// StorageTrie is the storage of a single contract.
type StorageTrie struct {
	tr *trie.Trie
}

// NewStorageTrie returns an empty contract storage.
func NewStorageTrie() *StorageTrie {
	return &StorageTrie{tr: newTrie()}
}

// Set stores value at slot. Leading zeroes are trimmed the way the EVM stores words.
func (s *StorageTrie) Set(slot, value common.Hash) {
	encoded, err := rlp.EncodeToBytes(common.TrimLeftZeroes(value.Bytes()))
	if err != nil {
		panic(err)
	}
	s.tr.MustUpdate(crypto.Keccak256(slot.Bytes()), encoded)
}

// Root returns the storage root.
func (s *StorageTrie) Root() common.Hash {
	return s.tr.Hash()
}

// Prove returns the proof of slot, which proves absence when the slot is empty.
func (s *StorageTrie) Prove(slot common.Hash) commitmenttypes.StorageProof {
	var proof proofList
	if err := s.tr.Prove(crypto.Keccak256(slot.Bytes()), &proof); err != nil {
		panic(err)
	}
	return commitmenttypes.StorageProof{Proof: proof}
}

// StateTrie is the account trie of an execution layer block.
type StateTrie struct {
	tr *trie.Trie
}

// NewStateTrie returns an empty state.
func NewStateTrie() *StateTrie {
	return &StateTrie{tr: newTrie()}
}

// SetAccount stores an account with the given storage root.
func (s *StateTrie) SetAccount(address common.Address, storageRoot common.Hash) {
	account := types.StateAccount{
		Nonce:    1,
		Balance:  uint256.NewInt(0),
		Root:     storageRoot,
		CodeHash: types.EmptyCodeHash.Bytes(),
	}
	encoded, err := rlp.EncodeToBytes(&account)
	if err != nil {
		panic(err)
	}
	s.tr.MustUpdate(crypto.Keccak256(address.Bytes()), encoded)
}

// Root returns the state root.
func (s *StateTrie) Root() common.Hash {
	return s.tr.Hash()
}

// Prove returns the account proof of address.
func (s *StateTrie) Prove(address common.Address) commitmenttypes.AccountProof {
	var proof proofList
	if err := s.tr.Prove(crypto.Keccak256(address.Bytes()), &proof); err != nil {
		panic(err)
	}
	return commitmenttypes.AccountProof{Proof: proof}
}
