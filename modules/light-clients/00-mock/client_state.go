package mock

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var (
	_ exported.ClientState    = (*ClientState)(nil)
	_ exported.ClientReferrer = (*ClientState)(nil)
)

// ClientState of the mock light client. References lists the clients whose consensus
// states are read on every update.
type ClientState struct {
	ChainId      string
	LatestHeight clienttypes.Height
	FrozenHeight clienttypes.Height
	References   []string
}

// NewClientState returns an active mock client state.
func NewClientState(chainID string, latestHeight clienttypes.Height, references ...string) *ClientState {
	return &ClientState{
		ChainId:      chainID,
		LatestHeight: latestHeight,
		FrozenHeight: clienttypes.ZeroHeight(),
		References:   references,
	}
}

// ClientType is mock.
func (ClientState) ClientType() string {
	return ModuleName
}

// GetLatestHeight returns the latest height.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// ReferencedClients implements exported.ClientReferrer.
func (cs ClientState) ReferencedClients() []string {
	return cs.References
}

// Validate checks the chain id and latest height.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, "chain id cannot be empty")
	}
	if cs.LatestHeight.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, "latest height cannot be zero")
	}

	return nil
}
