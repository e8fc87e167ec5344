package ibctesting

import (
	"encoding/binary"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/holiman/uint256"
	sha256 "github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/beacon/merkle"
	"github.com/ethereum/go-ethereum/beacon/params"
	beacontypes "github.com/ethereum/go-ethereum/beacon/types"
	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	ethereum "github.com/cosmos/ibc-lightclients/modules/light-clients/12-ethereum"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// BeaconTree is a sparse SSZ merkle tree addressed by generalized index. Subtrees holding no
// leaf hash to a filler value derived from their generalized index.
type BeaconTree struct {
	leaves map[uint64]merkle.Value
}

// NewBeaconTree returns an empty tree.
func NewBeaconTree() *BeaconTree {
	return &BeaconTree{leaves: make(map[uint64]merkle.Value)}
}

// Set stores leaf at gindex. Leaves must not be ancestors of each other.
func (t *BeaconTree) Set(gindex uint64, leaf merkle.Value) {
	t.leaves[gindex] = leaf
}

// Root returns the root of the tree.
func (t *BeaconTree) Root() common.Hash {
	return common.Hash(t.node(1))
}

// Branch returns the siblings of gindex from the leaf up to the root.
func (t *BeaconTree) Branch(gindex uint64) merkle.Values {
	var branch merkle.Values
	for g := gindex; g > 1; g >>= 1 {
		branch = append(branch, t.node(g^1))
	}
	return branch
}

func (t *BeaconTree) node(gindex uint64) merkle.Value {
	if leaf, ok := t.leaves[gindex]; ok {
		return leaf
	}
	if !t.holds(gindex) {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], gindex)
		return merkle.Value(sha256.Sum256(buf[:]))
	}

	left, right := t.node(2*gindex), t.node(2*gindex+1)
	return merkle.Value(sha256.Sum256(append(left[:], right[:]...)))
}

func (t *BeaconTree) holds(gindex uint64) bool {
	for leaf := range t.leaves {
		for g := leaf; g >= gindex; g >>= 1 {
			if g == gindex {
				return true
			}
		}
	}
	return false
}

// NewSyncCommittee returns the sync committee made of keys.
func NewSyncCommittee(keys []*BLSKey) *ethereum.SyncCommittee {
	pubKeys := make([][]byte, len(keys))
	for i, key := range keys {
		pubKeys[i] = key.PubKeyBytes()
	}

	aggregate, err := quorum.AggregatePubKeyBytes(pubKeys)
	if err != nil {
		panic(err)
	}

	return &ethereum.SyncCommittee{PubKeys: pubKeys, AggregatePubKey: aggregate}
}

// NewSyncCommitteeKeys returns size keys. Different seeds produce disjoint committees.
func NewSyncCommitteeKeys(seed uint64, size int) []*BLSKey {
	keys := make([]*BLSKey, size)
	for i := range keys {
		keys[i] = NewBLSKey(seed<<16 | uint64(i))
	}
	return keys
}

// LightClientHeaderConfig holds the fields of a beacon header which vary between tests.
type LightClientHeaderConfig struct {
	Slot        uint64
	BlockNumber uint64
	Timestamp   uint64
	StateRoot   common.Hash
	// StateLeaves are committed in the beacon state at their generalized index.
	StateLeaves map[uint64]merkle.Value
}

// CreateLightClientHeader creates a beacon header whose body commits to the execution payload
// header at the Deneb generalized index.
func CreateLightClientHeader(cfg LightClientHeaderConfig) ethereum.LightClientHeader {
	execution := ethereum.ExecutionPayloadHeader{
		ParentHash:    common.BigToHash(new(big.Int).SetUint64(cfg.BlockNumber - 1)),
		StateRoot:     cfg.StateRoot,
		BlockNumber:   cfg.BlockNumber,
		GasLimit:      30_000_000,
		GasUsed:       21_000,
		Timestamp:     cfg.Timestamp,
		ExtraData:     []byte("ibc"),
		BaseFeePerGas: uint256.NewInt(7),
		BlockHash:     common.BigToHash(new(big.Int).SetUint64(cfg.BlockNumber)),
	}

	body := NewBeaconTree()
	body.Set(params.BodyIndexExecPayload, merkle.Value(execution.HashTreeRoot()))

	state := NewBeaconTree()
	for gindex, leaf := range cfg.StateLeaves {
		state.Set(gindex, leaf)
	}

	return ethereum.LightClientHeader{
		Beacon: beacontypes.Header{
			Slot:          cfg.Slot,
			ProposerIndex: cfg.Slot % 64,
			ParentRoot:    common.BigToHash(new(big.Int).SetUint64(cfg.Slot)),
			StateRoot:     state.Root(),
			BodyRoot:      body.Root(),
		},
		Execution:       execution,
		ExecutionBranch: body.Branch(params.BodyIndexExecPayload),
	}
}

// EthereumUpdateConfig holds the fields of a light client update which vary between tests.
type EthereumUpdateConfig struct {
	ClientState *ethereum.ClientState

	FinalizedSlot uint64
	BlockNumber   uint64
	StateRoot     common.Hash

	// AttestedSlot and SignatureSlot default to the two slots following FinalizedSlot.
	AttestedSlot  uint64
	SignatureSlot uint64

	Committee []*BLSKey
	// Signers lists the indices of the participating members of Committee, defaults to all of them.
	Signers           []int
	NextSyncCommittee *ethereum.SyncCommittee
}

// CreateEthereumUpdate creates an update finalizing the configured block, signed by the
// configured participants of the committee.
func CreateEthereumUpdate(tb testing.TB, cfg EthereumUpdateConfig) ethereum.LightClientUpdate {
	tb.Helper()

	cs := cfg.ClientState
	require.NotNil(tb, cs)
	require.Len(tb, cfg.Committee, int(cs.SyncCommitteeSize))

	attestedSlot := cfg.AttestedSlot
	if attestedSlot == 0 {
		attestedSlot = cfg.FinalizedSlot + 1
	}
	signatureSlot := cfg.SignatureSlot
	if signatureSlot == 0 {
		signatureSlot = attestedSlot + 1
	}
	signers := cfg.Signers
	if signers == nil {
		signers = make([]int, len(cfg.Committee))
		for i := range signers {
			signers[i] = i
		}
	}

	finalized := CreateLightClientHeader(LightClientHeaderConfig{
		Slot:        cfg.FinalizedSlot,
		BlockNumber: cfg.BlockNumber,
		Timestamp:   cs.TimestampAtSlot(cfg.FinalizedSlot),
		StateRoot:   cfg.StateRoot,
	})

	stateLeaves := map[uint64]merkle.Value{
		params.StateIndexFinalBlock: merkle.Value(finalized.Beacon.Hash()),
	}
	if cfg.NextSyncCommittee != nil {
		stateLeaves[params.StateIndexNextSyncCommittee] = merkle.Value(cfg.NextSyncCommittee.HashTreeRoot())
	}
	attested := CreateLightClientHeader(LightClientHeaderConfig{
		Slot:        attestedSlot,
		BlockNumber: cfg.BlockNumber + attestedSlot - cfg.FinalizedSlot,
		Timestamp:   cs.TimestampAtSlot(attestedSlot),
		StateRoot:   common.BigToHash(new(big.Int).SetUint64(attestedSlot)),
		StateLeaves: stateLeaves,
	})

	state := NewBeaconTree()
	for gindex, leaf := range stateLeaves {
		state.Set(gindex, leaf)
	}

	update := ethereum.LightClientUpdate{
		AttestedHeader:  attested,
		FinalizedHeader: finalized,
		FinalityBranch:  state.Branch(params.StateIndexFinalBlock),
		SignatureSlot:   signatureSlot,
	}
	if cfg.NextSyncCommittee != nil {
		update.NextSyncCommittee = cfg.NextSyncCommittee
		update.NextSyncCommitteeBranch = state.Branch(params.StateIndexNextSyncCommittee)
	}

	update.SyncAggregate = SignSyncAggregate(cs, update, cfg.Committee, signers)
	return update
}

// SignSyncAggregate returns the sync aggregate of the signers of update.
func SignSyncAggregate(cs *ethereum.ClientState, update ethereum.LightClientUpdate, committee []*BLSKey, signers []int) ethereum.SyncAggregate {
	// SSZ bitvectors are little endian within each byte.
	bits := make([]byte, cs.SyncCommitteeSize/8)
	keys := make([]*BLSKey, len(signers))
	for i, signer := range signers {
		bits[signer/8] |= 1 << (signer % 8)
		keys[i] = committee[signer]
	}

	signingRoot := ethereum.ComputeSigningRoot(update.AttestedHeader.Beacon.Hash(), cs.SyncCommitteeDomain(update.SignatureSlot))

	return ethereum.SyncAggregate{
		SyncCommitteeBits:      bits,
		SyncCommitteeSignature: sumSign(keys, signingRoot.Bytes(), quorum.DSTEthereum),
	}
}

// sumSign signs message once with the sum of the secrets of keys, which equals the
// aggregate of their individual signatures.
func sumSign(keys []*BLSKey, message, dst []byte) []byte {
	secret := new(big.Int)
	for _, key := range keys {
		secret.Add(secret, key.secret)
	}
	secret.Mod(secret, fr.Modulus())

	hashed, err := bls12381.HashToG2(message, dst)
	if err != nil {
		panic(err)
	}

	var signature bls12381.G2Affine
	signature.ScalarMultiplication(&hashed, secret)
	bz := signature.Bytes()
	return bz[:]
}

// EthereumHeaderConfig holds the fields of an ethereum header which vary between tests.
type EthereumHeaderConfig struct {
	EthereumUpdateConfig

	TrustedHeight clienttypes.Height
	IsNext        bool
	// Storage is the storage of the IBC contract at the finalized block.
	Storage *StorageTrie
}

// CreateEthereumHeader creates a header finalizing the configured block together with the
// account proof of the IBC contract holding Storage.
func CreateEthereumHeader(tb testing.TB, cfg EthereumHeaderConfig) *ethereum.Header {
	tb.Helper()

	storage := cfg.Storage
	if storage == nil {
		storage = NewStorageTrie()
		storage.Set(common.HexToHash("0x01"), common.HexToHash("0x01"))
	}

	stateTrie := NewStateTrie()
	stateTrie.SetAccount(cfg.ClientState.IBCContractAddress, storage.Root())
	stateTrie.SetAccount(common.HexToAddress("0xdead"), common.Hash{})

	updateCfg := cfg.EthereumUpdateConfig
	updateCfg.StateRoot = stateTrie.Root()

	return &ethereum.Header{
		TrustedSyncCommittee: ethereum.TrustedSyncCommittee{
			TrustedHeight: cfg.TrustedHeight,
			SyncCommittee: *NewSyncCommittee(cfg.Committee),
			IsNext:        cfg.IsNext,
		},
		ConsensusUpdate: CreateEthereumUpdate(tb, updateCfg),
		AccountUpdate: ethereum.AccountUpdate{
			AccountProof: stateTrie.Prove(cfg.ClientState.IBCContractAddress),
			StorageRoot:  storage.Root(),
		},
	}
}
