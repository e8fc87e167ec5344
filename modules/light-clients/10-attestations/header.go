package attestations

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

// Header claims the block time of a counterparty height. It carries no signatures: the
// claim is accepted only if the attestors already attested the same timestamp.
type Header struct {
	Height    clienttypes.Height
	Timestamp uint64
}

// ClientType defines that the Header is an attestations header.
func (Header) ClientType() string {
	return exported.Attestations
}

// GetHeight returns the height the header claims the time of.
func (h Header) GetHeight() exported.Height {
	return h.Height
}

// ConsensusState returns the consensus state created by the header.
func (h Header) ConsensusState() *ConsensusState {
	return &ConsensusState{Timestamp: h.Timestamp}
}

// ValidateBasic checks the header is well formed.
func (h Header) ValidateBasic() error {
	if h.Height.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "header height cannot be zero")
	}
	if h.Timestamp == 0 || h.Timestamp > math.MaxInt64 {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "header timestamp must be a positive Unix time")
	}

	return nil
}
