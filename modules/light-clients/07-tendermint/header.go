package tendermint

import (
	"bytes"
	"io"
	"time"

	"github.com/cosmos/gogoproto/proto"

	errorsmod "cosmossdk.io/errors"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/ethereum/go-ethereum/rlp"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

// Header defines the Tendermint client consensus Header.
// It encapsulates all the information necessary to update from a trusted
// Tendermint ConsensusState. The inclusion of TrustedHeight and
// TrustedValidators allows this update to process correctly, so long as the
// ConsensusState for the TrustedHeight exists, this removes race conditions
// among relayers. The SignedHeader and ValidatorSet are the new untrusted update
// fields for the client. The TrustedHeight is the height of a stored
// ConsensusState on the client that will be used to verify the new untrusted
// header. The Trusted ConsensusState must be within the unbonding period of
// current time in order to correctly verify, and the TrustedValidators must
// hash to TrustedConsensusState.NextValidatorsHash since that is the last
// trusted validator set at the TrustedHeight.
type Header struct {
	*cmttypes.SignedHeader

	ValidatorSet      *cmttypes.ValidatorSet
	TrustedHeight     clienttypes.Height
	TrustedValidators *cmttypes.ValidatorSet
}

// headerRLP is the wire form of a Header. CometBFT types are carried in their
// protobuf encoding, the encoding validators sign over.
type headerRLP struct {
	SignedHeader      []byte
	ValidatorSet      []byte
	TrustedHeight     clienttypes.Height
	TrustedValidators []byte
}

// ConsensusState returns the updated consensus state associated with the header
func (h Header) ConsensusState() *ConsensusState {
	return &ConsensusState{
		Timestamp:          uint64(h.GetTime().UnixNano()),
		Root:               commitmenttypes.NewMerkleRoot(h.Header.AppHash),
		NextValidatorsHash: h.Header.NextValidatorsHash,
	}
}

// ClientType defines that the Header is a Tendermint consensus algorithm
func (Header) ClientType() string {
	return exported.Tendermint
}

// GetHeight returns the current height. It returns 0 if the tendermint
// header is nil.
// NOTE: the header.Header is checked to be non nil in ValidateBasic.
func (h Header) GetHeight() exported.Height {
	revision := clienttypes.ParseChainID(h.Header.ChainID)
	return clienttypes.NewHeight(revision, uint64(h.Header.Height))
}

// GetTime returns the current block timestamp. It returns a zero time if
// the tendermint header is nil.
// NOTE: the header.Header is checked to be non nil in ValidateBasic.
func (h Header) GetTime() time.Time {
	return h.Header.Time
}

// ValidateBasic calls the SignedHeader ValidateBasic function and checks
// that validatorsets are not nil.
// NOTE: TrustedHeight and TrustedValidators may be empty when creating client
// with MsgCreateClient
func (h Header) ValidateBasic() error {
	if h.SignedHeader == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "tendermint signed header cannot be nil")
	}
	if h.Header == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "tendermint header cannot be nil")
	}

	// NOTE: SignedHeader ValidateBasic checks that header has same chainID as commit
	if err := h.SignedHeader.ValidateBasic(h.Header.ChainID); err != nil {
		return errorsmod.Wrap(err, "header failed basic validation")
	}
	if h.Header.Time.UnixNano() <= 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "header time must be a positive Unix time")
	}

	// TrustedHeight is less than Header for updates and misbehaviour
	if h.TrustedHeight.GTE(h.GetHeight()) {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "TrustedHeight %d must be less than header height %d",
			h.TrustedHeight, h.GetHeight())
	}

	if h.ValidatorSet == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "validator set is nil")
	}
	if err := h.ValidatorSet.ValidateBasic(); err != nil {
		return errorsmod.Wrap(ErrInvalidValidatorSet, err.Error())
	}
	if !bytes.Equal(h.Header.ValidatorsHash, h.ValidatorSet.Hash()) {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "validator set does not match hash")
	}
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (h Header) EncodeRLP(w io.Writer) error {
	var (
		wire headerRLP
		err  error
	)

	if h.SignedHeader != nil {
		if wire.SignedHeader, err = proto.Marshal(h.SignedHeader.ToProto()); err != nil {
			return err
		}
	}
	if wire.ValidatorSet, err = marshalValidatorSet(h.ValidatorSet); err != nil {
		return err
	}
	if wire.TrustedValidators, err = marshalValidatorSet(h.TrustedValidators); err != nil {
		return err
	}
	wire.TrustedHeight = h.TrustedHeight

	return rlp.Encode(w, &wire)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var wire headerRLP
	if err := s.Decode(&wire); err != nil {
		return err
	}

	*h = Header{TrustedHeight: wire.TrustedHeight}

	if len(wire.SignedHeader) != 0 {
		var signedHeader cmtproto.SignedHeader
		if err := proto.Unmarshal(wire.SignedHeader, &signedHeader); err != nil {
			return err
		}
		sh, err := cmttypes.SignedHeaderFromProto(&signedHeader)
		if err != nil {
			return err
		}
		h.SignedHeader = sh
	}

	var err error
	if h.ValidatorSet, err = unmarshalValidatorSet(wire.ValidatorSet); err != nil {
		return err
	}
	if h.TrustedValidators, err = unmarshalValidatorSet(wire.TrustedValidators); err != nil {
		return err
	}

	return nil
}

func marshalValidatorSet(valSet *cmttypes.ValidatorSet) ([]byte, error) {
	if valSet == nil || valSet.IsNilOrEmpty() {
		return nil, nil
	}

	protoValSet, err := valSet.ToProto()
	if err != nil {
		return nil, err
	}

	return proto.Marshal(protoValSet)
}

func unmarshalValidatorSet(bz []byte) (*cmttypes.ValidatorSet, error) {
	if len(bz) == 0 {
		return nil, nil
	}

	var protoValSet cmtproto.ValidatorSet
	if err := proto.Unmarshal(bz, &protoValSet); err != nil {
		return nil, err
	}

	return cmttypes.ValidatorSetFromProto(&protoValSet)
}
