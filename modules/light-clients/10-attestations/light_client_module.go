package attestations

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.LightClientModule = (*LightClientModule)(nil)

// LightClientModule implements the core IBC api.LightClientModule interface.
type LightClientModule struct {
	cdc           codec.BinaryCodec
	storeProvider exported.ClientStoreProvider
}

// NewLightClientModule creates and returns a new 10-attestations LightClientModule.
func NewLightClientModule(cdc codec.BinaryCodec, storeProvider exported.ClientStoreProvider) LightClientModule {
	return LightClientModule{
		cdc:           cdc,
		storeProvider: storeProvider,
	}
}

// Initialize unmarshals the provided client and consensus states and performs basic validation.
func (l LightClientModule) Initialize(clientID string, clientStateBz, consensusStateBz []byte) error {
	clientState, err := clienttypes.UnpackClientState[*ClientState](l.cdc, clientStateBz)
	if err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, err.Error())
	}

	if err := clientState.Validate(); err != nil {
		return err
	}

	consensusState, err := clienttypes.UnpackConsensusState[*ConsensusState](l.cdc, consensusStateBz)
	if err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, err.Error())
	}

	clientStore := l.storeProvider.ClientStore(clientID)

	return clientState.initialize(l.cdc, clientStore, consensusState)
}

// SubmitAttestation records an attestation signed by a quorum of the client's attestors.
// Each (height, key) pair can be attested once.
func (l LightClientModule) SubmitAttestation(clientID string, attestation Attestation, signatures [][]byte) error {
	clientState, err := l.activeClientState(clientID)
	if err != nil {
		return err
	}

	return clientState.submitAttestation(l.storeProvider.ClientStore(clientID), l.cdc, attestation, signatures)
}

// VerifyClientMessage obtains the client state associated with the client identifier and calls into the clientState.VerifyClientMessage method.
// Attested clients have no notion of time and ignore now.
func (l LightClientModule) VerifyClientMessage(_ time.Time, clientID string, clientMsg exported.ClientMessage) error {
	clientState, err := l.activeClientState(clientID)
	if err != nil {
		return err
	}

	return clientState.VerifyClientMessage(l.cdc, l.storeProvider.ClientStore(clientID), clientMsg)
}

// CheckForMisbehaviour obtains the client state associated with the client identifier and calls into the clientState.CheckForMisbehaviour method.
func (l LightClientModule) CheckForMisbehaviour(clientID string, clientMsg exported.ClientMessage) bool {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore, l.cdc)
	if !found {
		panic(errorsmod.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	return clientState.CheckForMisbehaviour(l.cdc, clientStore, clientMsg)
}

// UpdateStateOnMisbehaviour updates state upon misbehaviour, freezing the ClientState.
func (l LightClientModule) UpdateStateOnMisbehaviour(clientID string, clientMsg exported.ClientMessage) {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore, l.cdc)
	if !found {
		panic(errorsmod.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	clientState.UpdateStateOnMisbehaviour(l.cdc, clientStore, clientMsg)
}

// UpdateState obtains the client state associated with the client identifier and calls into the clientState.UpdateState method.
func (l LightClientModule) UpdateState(clientID string, clientMsg exported.ClientMessage) []exported.Height {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore, l.cdc)
	if !found {
		panic(errorsmod.Wrap(clienttypes.ErrClientNotFound, clientID))
	}

	return clientState.UpdateState(l.cdc, clientStore, clientMsg)
}

// VerifyMembership checks that the attestors attested value under path at height. The proof is ignored.
func (l LightClientModule) VerifyMembership(
	clientID string,
	height exported.Height,
	_ []byte,
	path exported.Path,
	value []byte,
) error {
	clientState, err := l.activeClientState(clientID)
	if err != nil {
		return err
	}

	return clientState.verifyMembership(l.storeProvider.ClientStore(clientID), l.cdc, height, path, value)
}

// VerifyNonMembership checks that the attestors attested the absence of path at height. The proof is ignored.
func (l LightClientModule) VerifyNonMembership(
	clientID string,
	height exported.Height,
	_ []byte,
	path exported.Path,
) error {
	clientState, err := l.activeClientState(clientID)
	if err != nil {
		return err
	}

	return clientState.verifyNonMembership(l.storeProvider.ClientStore(clientID), l.cdc, height, path)
}

// Status returns the status of the attestations client.
// The client may be:
// - Active: if the client is not frozen.
// - Frozen: if misbehaviour of the attestors was submitted.
// - Unknown: if the client state associated with the provided client identifier is not found.
func (l LightClientModule) Status(_ time.Time, clientID string) exported.Status {
	clientState, found := getClientState(l.storeProvider.ClientStore(clientID), l.cdc)
	if !found {
		return exported.Unknown
	}

	return clientState.status()
}

// LatestHeight returns the latest height for the client state for the given client identifier.
// If no client is present for the provided client identifier a zero value height is returned.
func (l LightClientModule) LatestHeight(clientID string) exported.Height {
	clientState, found := getClientState(l.storeProvider.ClientStore(clientID), l.cdc)
	if !found {
		return clienttypes.ZeroHeight()
	}

	return clientState.LatestHeight
}

// TimestampAtHeight obtains the client state associated with the client identifier and returns the timestamp in nanoseconds of the consensus state at the given height.
func (l LightClientModule) TimestampAtHeight(clientID string, height exported.Height) (uint64, error) {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	consensusState, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, height)
	if err != nil {
		return 0, err
	}

	return consensusState.GetTimestamp(), nil
}

// CounterpartyChainID returns the chain-id of the chain tracked by the client.
func (l LightClientModule) CounterpartyChainID(clientID string) (string, error) {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		return "", err
	}

	return clientState.ChainId, nil
}

func (l LightClientModule) activeClientState(clientID string) (*ClientState, error) {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		return nil, err
	}
	if !clientState.FrozenHeight.IsZero() {
		return nil, errorsmod.Wrapf(clienttypes.ErrClientFrozen, "client %s frozen at height %s", clientID, clientState.FrozenHeight)
	}

	return clientState, nil
}
