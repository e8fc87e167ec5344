package tendermint

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

// NewLightClientModule creates and returns a new 07-tendermint LightClientModule.
func NewLightClientModule(cdc codec.BinaryCodec, storeProvider exported.ClientStoreProvider) LightClientModule {
	return LightClientModule{
		cdc:           cdc,
		storeProvider: storeProvider,
	}
}

// Initialize unmarshals the provided client and consensus states and performs basic validation. It calls into the
// clientState.Initialize method.
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

// VerifyClientMessage obtains the client state associated with the client identifier and calls into the clientState.VerifyClientMessage method.
func (l LightClientModule) VerifyClientMessage(now time.Time, clientID string, clientMsg exported.ClientMessage) error {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		return err
	}
	if !clientState.FrozenHeight.IsZero() {
		return errorsmod.Wrapf(clienttypes.ErrClientFrozen, "client %s frozen at height %s", clientID, clientState.FrozenHeight)
	}

	return clientState.VerifyClientMessage(now, vctx, l.cdc, clientMsg)
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

// UpdateStateOnMisbehaviour obtains the client state associated with the client identifier and calls into the clientState.UpdateStateOnMisbehaviour method.
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

// VerifyMembership obtains the client state associated with the client identifier and calls into the clientState.verifyMembership method.
func (l LightClientModule) VerifyMembership(
	clientID string,
	height exported.Height,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, err := l.activeClientState(clientID)
	if err != nil {
		return err
	}

	return clientState.verifyMembership(clientStore, l.cdc, height, proof, path, value)
}

// VerifyNonMembership obtains the client state associated with the client identifier and calls into the clientState.verifyNonMembership method.
func (l LightClientModule) VerifyNonMembership(
	clientID string,
	height exported.Height,
	proof []byte,
	path exported.Path,
) error {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, err := l.activeClientState(clientID)
	if err != nil {
		return err
	}

	return clientState.verifyNonMembership(clientStore, l.cdc, height, proof, path)
}

// Status obtains the client state associated with the client identifier and calls into the clientState.status method.
func (l LightClientModule) Status(now time.Time, clientID string) exported.Status {
	clientStore := l.storeProvider.ClientStore(clientID)
	clientState, found := getClientState(clientStore, l.cdc)
	if !found {
		return exported.Unknown
	}

	return clientState.status(now, clientStore, l.cdc)
}

// LatestHeight returns the latest height for the client state for the given client identifier.
// If no client is present for the provided client identifier a zero value height is returned.
func (l LightClientModule) LatestHeight(clientID string) exported.Height {
	clientStore := l.storeProvider.ClientStore(clientID)

	clientState, found := getClientState(clientStore, l.cdc)
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
