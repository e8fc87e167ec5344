package ibctesting

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	ics23 "github.com/cosmos/ics23/go"

	"github.com/cometbft/cometbft/crypto/merkle"

	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
)

// MerkleStore is an in-memory key-value store committed with the simple merkle tree described by
// ics23.TendermintSpec. Keys are sorted, leaves hash the key with the sha256 of the value.
type MerkleStore struct {
	kvs map[string][]byte
}

// NewMerkleStore returns an empty MerkleStore.
func NewMerkleStore() *MerkleStore {
	return &MerkleStore{kvs: make(map[string][]byte)}
}

// Set stores value under key.
func (s *MerkleStore) Set(key, value []byte) {
	s.kvs[string(key)] = value
}

func (s *MerkleStore) sortedKeys() []string {
	keys := make([]string, 0, len(s.kvs))
	for k := range s.kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *MerkleStore) leaves() ([]string, [][]byte) {
	keys := s.sortedKeys()
	leaves := make([][]byte, len(keys))
	for i, k := range keys {
		valueHash := sha256.Sum256(s.kvs[k])
		leaves[i] = append(encodeByteSlice([]byte(k)), encodeByteSlice(valueHash[:])...)
	}
	return keys, leaves
}

// Root returns the root hash of the store.
func (s *MerkleStore) Root() []byte {
	_, leaves := s.leaves()
	return merkle.HashFromByteSlices(leaves)
}

// ExistenceProof returns a commitment proof of key.
func (s *MerkleStore) ExistenceProof(key []byte) (*ics23.CommitmentProof, error) {
	exist, err := s.existenceProof(key)
	if err != nil {
		return nil, err
	}

	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Exist{Exist: exist}}, nil
}

// NonExistenceProof returns a commitment proof of the absence of key, made of the
// existence proofs of its left and right neighbours.
func (s *MerkleStore) NonExistenceProof(key []byte) (*ics23.CommitmentProof, error) {
	if _, ok := s.kvs[string(key)]; ok {
		return nil, fmt.Errorf("key %X exists", key)
	}

	keys := s.sortedKeys()
	idx := sort.SearchStrings(keys, string(key))

	nonExist := &ics23.NonExistenceProof{Key: key}
	if idx > 0 {
		left, err := s.existenceProof([]byte(keys[idx-1]))
		if err != nil {
			return nil, err
		}
		nonExist.Left = left
	}
	if idx < len(keys) {
		right, err := s.existenceProof([]byte(keys[idx]))
		if err != nil {
			return nil, err
		}
		nonExist.Right = right
	}

	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Nonexist{Nonexist: nonExist}}, nil
}

func (s *MerkleStore) existenceProof(key []byte) (*ics23.ExistenceProof, error) {
	value, ok := s.kvs[string(key)]
	if !ok {
		return nil, fmt.Errorf("key %X does not exist", key)
	}

	keys, leaves := s.leaves()
	idx := sort.SearchStrings(keys, string(key))

	_, proofs := merkle.ProofsFromByteSlices(leaves)
	proof := proofs[idx]

	path := buildPath(proof.Index, proof.Total)
	inners := make([]*ics23.InnerOp, 0, len(proof.Aunts))
	for i, aunt := range proof.Aunts {
		inner := &ics23.InnerOp{Hash: ics23.HashOp_SHA256}
		if path[i] {
			// we are the left child, the aunt is hashed after us
			inner.Prefix = []byte{1}
			inner.Suffix = aunt
		} else {
			inner.Prefix = append([]byte{1}, aunt...)
		}
		inners = append(inners, inner)
	}

	return &ics23.ExistenceProof{
		Key:   key,
		Value: value,
		Leaf:  ics23.TendermintSpec.LeafSpec,
		Path:  inners,
	}, nil
}

// buildPath returns, from the leaf up, whether the node is the left child at each level.
func buildPath(idx, total int64) []bool {
	if total < 2 {
		return nil
	}
	numLeft := getSplitPoint(total)
	goLeft := idx < numLeft

	if goLeft {
		return append(buildPath(idx, numLeft), goLeft)
	}
	return append(buildPath(idx-numLeft, total-numLeft), goLeft)
}

// getSplitPoint returns the largest power of 2 less than length.
func getSplitPoint(length int64) int64 {
	split := int64(1)
	for split*2 < length {
		split *= 2
	}
	return split
}

func encodeByteSlice(bz []byte) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(bz)))
	return append(buf[:n:n], bz...)
}

// MultiStore commits a set of MerkleStores under their store keys, the layout of a
// Cosmos SDK application hash.
type MultiStore struct {
	stores map[string]*MerkleStore
}

// NewMultiStore returns an empty MultiStore.
func NewMultiStore() *MultiStore {
	return &MultiStore{stores: make(map[string]*MerkleStore)}
}

// Store returns the substore mounted under storeKey, creating it if needed.
func (ms *MultiStore) Store(storeKey string) *MerkleStore {
	store, ok := ms.stores[storeKey]
	if !ok {
		store = NewMerkleStore()
		ms.stores[storeKey] = store
	}
	return store
}

func (ms *MultiStore) rootStore() *MerkleStore {
	root := NewMerkleStore()
	for storeKey, store := range ms.stores {
		root.Set([]byte(storeKey), store.Root())
	}
	return root
}

// Root returns the application hash.
func (ms *MultiStore) Root() []byte {
	return ms.rootStore().Root()
}

// MembershipProof returns the chained proof of key in the substore mounted under storeKey.
func (ms *MultiStore) MembershipProof(storeKey string, key []byte) (commitmenttypes.MerkleProof, error) {
	store, ok := ms.stores[storeKey]
	if !ok {
		return commitmenttypes.MerkleProof{}, fmt.Errorf("store %s is not mounted", storeKey)
	}

	inner, err := store.ExistenceProof(key)
	if err != nil {
		return commitmenttypes.MerkleProof{}, err
	}

	outer, err := ms.rootStore().ExistenceProof([]byte(storeKey))
	if err != nil {
		return commitmenttypes.MerkleProof{}, err
	}

	return commitmenttypes.MerkleProof{Proofs: []*ics23.CommitmentProof{inner, outer}}, nil
}

// NonMembershipProof returns the chained proof of the absence of key in the substore mounted under storeKey.
func (ms *MultiStore) NonMembershipProof(storeKey string, key []byte) (commitmenttypes.MerkleProof, error) {
	store, ok := ms.stores[storeKey]
	if !ok {
		return commitmenttypes.MerkleProof{}, fmt.Errorf("store %s is not mounted", storeKey)
	}

	inner, err := store.NonExistenceProof(key)
	if err != nil {
		return commitmenttypes.MerkleProof{}, err
	}

	outer, err := ms.rootStore().ExistenceProof([]byte(storeKey))
	if err != nil {
		return commitmenttypes.MerkleProof{}, err
	}

	return commitmenttypes.MerkleProof{Proofs: []*ics23.CommitmentProof{inner, outer}}, nil
}

// SimpleSpecs are the proof specs of a MultiStore.
func SimpleSpecs() commitmenttypes.ProofSpecs {
	return commitmenttypes.ProofSpecs{ics23.TendermintSpec, ics23.TendermintSpec}
}

// FlipByte returns a copy of bz with the byte at index i inverted.
func FlipByte(bz []byte, i int) []byte {
	flipped := bytes.Clone(bz)
	flipped[i] ^= 0xff
	return flipped
}
