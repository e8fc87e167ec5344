package cometbls

import (
	"strings"
	"time"

	ics23 "github.com/cosmos/ics23/go"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	cmttypes "github.com/cometbft/cometbft/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState of a cometbls client. Periods are stored in nanoseconds. ContractAddress is the
// contract whose commitments are proven, ZKVerifyingKey verifies validator set transitions.
type ClientState struct {
	ChainId         string //nolint:revive
	TrustingPeriod  uint64
	MaxClockDrift   uint64
	FrozenHeight    clienttypes.Height
	LatestHeight    clienttypes.Height
	ContractAddress []byte
	ZKVerifyingKey  VerifyingKey
	ProofSpecs      commitmenttypes.ProofSpecs
}

// NewClientState creates a new ClientState instance
func NewClientState(
	chainID string, trustingPeriod, maxClockDrift time.Duration,
	latestHeight clienttypes.Height, contractAddress []byte, vk VerifyingKey, specs []*ics23.ProofSpec,
) *ClientState {
	return &ClientState{
		ChainId:         chainID,
		TrustingPeriod:  uint64(trustingPeriod),
		MaxClockDrift:   uint64(maxClockDrift),
		FrozenHeight:    clienttypes.ZeroHeight(),
		LatestHeight:    latestHeight,
		ContractAddress: contractAddress,
		ZKVerifyingKey:  vk,
		ProofSpecs:      specs,
	}
}

// ClientType is cometbls.
func (ClientState) ClientType() string {
	return exported.CometBLS
}

// GetLatestHeight returns latest block height.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// GetTrustingPeriod returns the trusting period as a duration.
func (cs ClientState) GetTrustingPeriod() time.Duration {
	return time.Duration(cs.TrustingPeriod)
}

// GetMaxClockDrift returns the max clock drift as a duration.
func (cs ClientState) GetMaxClockDrift() time.Duration {
	return time.Duration(cs.MaxClockDrift)
}

// IsExpired returns whether the trusting period has elapsed since latestTimestamp.
func (cs ClientState) IsExpired(latestTimestamp, now time.Time) bool {
	return !latestTimestamp.Add(cs.GetTrustingPeriod()).After(now)
}

func (cs ClientState) status(now time.Time, clientStore storetypes.KVStore, cdc codec.BinaryCodec) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	consState, found := GetConsensusState(clientStore, cdc, cs.LatestHeight)
	if !found {
		return exported.Expired
	}

	if cs.IsExpired(consState.GetTime(), now) {
		return exported.Expired
	}

	return exported.Active
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return errorsmod.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}
	if len(cs.ChainId) > cmttypes.MaxChainIDLen {
		return errorsmod.Wrapf(ErrInvalidChainID, "chainID is too long; got: %d, max: %d", len(cs.ChainId), cmttypes.MaxChainIDLen)
	}
	if cs.TrustingPeriod == 0 || cs.TrustingPeriod > maxDuration {
		return errorsmod.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.MaxClockDrift == 0 || cs.MaxClockDrift > maxDuration {
		return errorsmod.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}
	if cs.LatestHeight.RevisionNumber != clienttypes.ParseChainID(cs.ChainId) {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight,
			"latest height revision number must match chain id revision number (%d != %d)", cs.LatestHeight.RevisionNumber, clienttypes.ParseChainID(cs.ChainId))
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return errorsmod.Wrap(ErrInvalidHeaderHeight, "cometbls client's latest height revision height cannot be zero")
	}
	if !cs.FrozenHeight.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, "client cannot be created frozen")
	}
	if len(cs.ContractAddress) == 0 {
		return errorsmod.Wrap(ErrInvalidContractAddress, "contract address cannot be empty")
	}
	if err := cs.ZKVerifyingKey.Validate(); err != nil {
		return err
	}
	if err := commitmenttypes.ValidateProofSpecs(cs.ProofSpecs); err != nil {
		return errorsmod.Wrap(ErrInvalidProofSpecs, err.Error())
	}

	return nil
}

func (cs ClientState) initialize(cdc codec.BinaryCodec, clientStore storetypes.KVStore, consensusState *ConsensusState) error {
	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, consensusState, cs.LatestHeight)

	return nil
}

// verifyMembership verifies that the contract of the client committed value under the key
// carried by path. The full path is composed with the contract commitment key layout.
func (cs ClientState) verifyMembership(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	merkleProof, merklePath, consensusState, err := cs.proofArguments(clientStore, cdc, height, proof, path)
	if err != nil {
		return err
	}

	return merkleProof.VerifyMembership(cs.ProofSpecs, consensusState.GetRoot(), merklePath, value)
}

// verifyNonMembership verifies that the contract of the client committed nothing under the
// key carried by path.
func (cs ClientState) verifyNonMembership(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	proof []byte,
	path exported.Path,
) error {
	merkleProof, merklePath, consensusState, err := cs.proofArguments(clientStore, cdc, height, proof, path)
	if err != nil {
		return err
	}

	return merkleProof.VerifyNonMembership(cs.ProofSpecs, consensusState.GetRoot(), merklePath)
}

func (cs ClientState) proofArguments(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	proof []byte,
	path exported.Path,
) (commitmenttypes.MerkleProof, commitmenttypes.MerklePath, *ConsensusState, error) {
	if cs.LatestHeight.LT(height) {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, errorsmod.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%d < %d), please ensure the client has been updated", cs.LatestHeight, height,
		)
	}

	var merkleProof commitmenttypes.MerkleProof
	if err := cdc.Unmarshal(proof, &merkleProof); err != nil {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, errorsmod.Wrap(commitmenttypes.ErrInvalidProof, "failed to unmarshal proof into ICS 23 commitment merkle proof")
	}

	keyPath, ok := path.(commitmenttypes.MerklePath)
	if !ok {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected %T, got %T", commitmenttypes.MerklePath{}, path)
	}
	if len(keyPath.KeyPath) != 1 {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, errorsmod.Wrapf(commitmenttypes.ErrInvalidPath, "expected a single contract key, got %d keys", len(keyPath.KeyPath))
	}

	merklePath, err := commitmenttypes.NewContractMerklePath(cs.ContractAddress, keyPath.KeyPath[0])
	if err != nil {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, err
	}

	consensusState, found := GetConsensusState(clientStore, cdc, height)
	if !found {
		return commitmenttypes.MerkleProof{}, commitmenttypes.MerklePath{}, nil, errorsmod.Wrap(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client")
	}

	return merkleProof, merklePath, consensusState, nil
}

// maxDuration bounds stored periods so that they convert to time.Duration without overflow.
const maxDuration = uint64(1<<63 - 1)
