package mock

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var (
	_ exported.ClientMessage = (*Header)(nil)
	_ exported.ClientMessage = (*Misbehaviour)(nil)
)

// Header moves the mock client to Height. ReferenceHeight is the height at which the
// consensus states of referenced clients are read.
type Header struct {
	Height          clienttypes.Height
	Timestamp       uint64
	Root            []byte
	ReferenceHeight clienttypes.Height
}

func (*Header) ClientType() string {
	return ModuleName
}

func (h *Header) ValidateBasic() error {
	if h.Height.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "height cannot be zero")
	}

	return nil
}

// ConsensusState returns the consensus state produced by the header.
func (h *Header) ConsensusState() *ConsensusState {
	return &ConsensusState{Timestamp: h.Timestamp, Root: h.Root}
}

// Misbehaviour freezes the mock client at Height.
type Misbehaviour struct {
	Height clienttypes.Height
}

func (*Misbehaviour) ClientType() string {
	return ModuleName
}

func (m *Misbehaviour) ValidateBasic() error {
	if m.Height.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, "height cannot be zero")
	}

	return nil
}
