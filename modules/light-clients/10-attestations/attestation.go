package attestations

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// ReservedKeyPrefix prefixes the keys attested by the client itself. Such keys cannot be
// used as membership paths.
var ReservedKeyPrefix = []byte{0x00}

// TimestampKey is the reserved key under which attestors attest the block time of a height.
// The value is the unix time in nanoseconds encoded as 8 big-endian bytes.
var TimestampKey = []byte("\x00timestamp")

// AttestationKind tells whether an attestation claims the presence or the absence of a value.
type AttestationKind uint8

const (
	// Existence claims that the key holds the attested value.
	Existence AttestationKind = iota + 1
	// NonExistence claims that nothing is stored under the key.
	NonExistence
)

// AttestedValue is the claim an attestation makes about its key.
type AttestedValue struct {
	Kind  AttestationKind
	Value []byte
}

// NewExistence returns the claim that value is stored.
func NewExistence(value []byte) AttestedValue {
	return AttestedValue{Kind: Existence, Value: value}
}

// NewNonExistence returns the claim that nothing is stored.
func NewNonExistence() AttestedValue {
	return AttestedValue{Kind: NonExistence}
}

// Attestation is a claim about the value of Key on the counterparty at Height.
type Attestation struct {
	Height clienttypes.Height
	Key    []byte
	Value  AttestedValue
}

// NewTimestampAttestation returns the attestation of the block time of height.
func NewTimestampAttestation(height clienttypes.Height, timestamp uint64) Attestation {
	return Attestation{
		Height: height,
		Key:    TimestampKey,
		Value:  NewExistence(EncodeTimestamp(timestamp)),
	}
}

// EncodeTimestamp returns the big-endian encoding of timestamp.
func EncodeTimestamp(timestamp uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, timestamp)
}

// ValidateBasic checks the well-formedness of the attestation.
func (a Attestation) ValidateBasic() error {
	if a.Height.IsZero() {
		return errorsmod.Wrap(ErrInvalidAttestation, "height cannot be zero")
	}
	if len(a.Key) == 0 {
		return errorsmod.Wrap(ErrInvalidAttestation, "key cannot be empty")
	}

	switch a.Value.Kind {
	case Existence:
		if len(a.Value.Value) == 0 {
			return errorsmod.Wrap(ErrInvalidAttestation, "existence attestation must carry a value")
		}
	case NonExistence:
		if len(a.Value.Value) != 0 {
			return errorsmod.Wrap(ErrInvalidAttestation, "non-existence attestation cannot carry a value")
		}
	default:
		return errorsmod.Wrapf(ErrInvalidAttestation, "unknown attestation kind %d", a.Value.Kind)
	}

	return nil
}
