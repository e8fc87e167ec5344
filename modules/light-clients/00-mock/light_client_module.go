package mock

import (
	"bytes"
	"time"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.LightClientModule = (*LightClientModule)(nil)

// LightClientModule is the mock light client module. It counts the client messages it was
// asked to verify.
type LightClientModule struct {
	cdc           codec.BinaryCodec
	storeProvider exported.ClientStoreProvider

	verifications int
}

// NewLightClientModule creates and returns a new mock LightClientModule.
func NewLightClientModule(cdc codec.BinaryCodec, storeProvider exported.ClientStoreProvider) *LightClientModule {
	return &LightClientModule{
		cdc:           cdc,
		storeProvider: storeProvider,
	}
}

// Verifications returns the number of VerifyClientMessage calls which reached the client.
func (l *LightClientModule) Verifications() int {
	return l.verifications
}

func (l *LightClientModule) Initialize(clientID string, clientStateBz, consensusStateBz []byte) error {
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
	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}

	clientStore := l.storeProvider.ClientStore(clientID)
	setClientState(clientStore, l.cdc, clientState)
	setConsensusState(clientStore, l.cdc, consensusState, clientState.LatestHeight)

	return nil
}

// VerifyClientMessage accepts any mock header once the referenced consensus states exist.
func (l *LightClientModule) VerifyClientMessage(_ time.Time, clientID string, clientMsg exported.ClientMessage) error {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		return err
	}
	if !clientState.FrozenHeight.IsZero() {
		return ErrFrozen
	}

	l.verifications++

	switch msg := clientMsg.(type) {
	case *Header:
		for _, ref := range clientState.References {
			if _, err := clienttypes.GetConsensusState[exported.ConsensusState](vctx, ref, msg.ReferenceHeight); err != nil {
				return err
			}
		}
		return msg.ValidateBasic()
	case *Misbehaviour:
		return msg.ValidateBasic()
	default:
		return errorsmod.Wrapf(ErrInvalidClientMsg, "invalid client message type %T", clientMsg)
	}
}

func (*LightClientModule) CheckForMisbehaviour(_ string, clientMsg exported.ClientMessage) bool {
	_, ok := clientMsg.(*Misbehaviour)
	return ok
}

func (l *LightClientModule) UpdateStateOnMisbehaviour(clientID string, clientMsg exported.ClientMessage) {
	misbehaviour, ok := clientMsg.(*Misbehaviour)
	if !ok {
		panic(errorsmod.Wrapf(ErrInvalidClientMsg, "invalid client message type %T", clientMsg))
	}

	clientState := l.mustGetClientState(clientID)
	clientState.FrozenHeight = misbehaviour.Height
	setClientState(l.storeProvider.ClientStore(clientID), l.cdc, clientState)
}

func (l *LightClientModule) UpdateState(clientID string, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		panic(errorsmod.Wrapf(ErrInvalidClientMsg, "invalid client message type %T", clientMsg))
	}

	clientStore := l.storeProvider.ClientStore(clientID)
	clientState := l.mustGetClientState(clientID)
	if header.Height.GT(clientState.LatestHeight) {
		clientState.LatestHeight = header.Height
		setClientState(clientStore, l.cdc, clientState)
	}
	setConsensusState(clientStore, l.cdc, header.ConsensusState(), header.Height)

	return []exported.Height{header.Height}
}

func (l *LightClientModule) VerifyMembership(clientID string, height exported.Height, proof []byte, path exported.Path, value []byte) error {
	if err := l.verifyProof(clientID, height, proof, path); err != nil {
		return err
	}
	if len(value) == 0 {
		return errorsmod.Wrap(ErrInvalidProof, "value cannot be empty")
	}

	return nil
}

func (l *LightClientModule) VerifyNonMembership(clientID string, height exported.Height, proof []byte, path exported.Path) error {
	return l.verifyProof(clientID, height, proof, path)
}

func (l *LightClientModule) verifyProof(clientID string, height exported.Height, proof []byte, path exported.Path) error {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	if _, err := vctx.ReadSelfConsensusState(height); err != nil {
		return err
	}
	if path == nil || path.Empty() {
		return errorsmod.Wrap(ErrInvalidProof, "path cannot be empty")
	}
	if !bytes.Equal(proof, MockProof) {
		return ErrInvalidProof
	}

	return nil
}

func (l *LightClientModule) Status(_ time.Time, clientID string) exported.Status {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		return exported.Unknown
	}
	if !clientState.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	return exported.Active
}

func (l *LightClientModule) LatestHeight(clientID string) exported.Height {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		return clienttypes.ZeroHeight()
	}

	return clientState.LatestHeight
}

func (l *LightClientModule) TimestampAtHeight(clientID string, height exported.Height) (uint64, error) {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	consensusState, err := vctx.ReadSelfConsensusState(height)
	if err != nil {
		return 0, err
	}

	return consensusState.GetTimestamp(), nil
}

func (l *LightClientModule) CounterpartyChainID(clientID string) (string, error) {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		return "", err
	}

	return clientState.ChainId, nil
}

func (l *LightClientModule) mustGetClientState(clientID string) *ClientState {
	vctx := clienttypes.NewVerificationContext(l.cdc, l.storeProvider, clientID)
	clientState, err := clienttypes.GetSelfClientState[*ClientState](vctx)
	if err != nil {
		panic(err)
	}

	return clientState
}
