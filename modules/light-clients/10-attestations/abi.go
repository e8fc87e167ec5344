package attestations

import (
	"crypto/sha256"

	errorsmod "cosmossdk.io/errors"

	"github.com/ethereum/go-ethereum/accounts/abi"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

var (
	stringType, _ = abi.NewType("string", "", nil)
	uint64Type, _ = abi.NewType("uint64", "", nil)
	uint8Type, _  = abi.NewType("uint8", "", nil)
	bytesType, _  = abi.NewType("bytes", "", nil)

	attestationArgs = abi.Arguments{
		{Name: "chainId", Type: stringType},
		{Name: "revisionNumber", Type: uint64Type},
		{Name: "revisionHeight", Type: uint64Type},
		{Name: "key", Type: bytesType},
		{Name: "kind", Type: uint8Type},
		{Name: "value", Type: bytesType},
	}
)

// ABIEncode returns the payload attestors sign for a:
//
//	abi.encode(chainId, revisionNumber, revisionHeight, key, kind, value)
//
// The chain-id binds the claim to one counterparty.
func (a Attestation) ABIEncode(chainID string) ([]byte, error) {
	value := a.Value.Value
	if value == nil {
		value = []byte{}
	}

	bz, err := attestationArgs.Pack(chainID, a.Height.RevisionNumber, a.Height.RevisionHeight, a.Key, uint8(a.Value.Kind), value)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidAttestationData, "failed to ABI encode attestation: %v", err)
	}

	return bz, nil
}

// Digest returns sha256 of the ABI encoded attestation, the message attestors sign.
func (a Attestation) Digest(chainID string) ([32]byte, error) {
	bz, err := a.ABIEncode(chainID)
	if err != nil {
		return [32]byte{}, err
	}

	return sha256.Sum256(bz), nil
}

// ABIDecodeAttestation decodes an ABI encoded attestation and the chain-id it is bound to.
func ABIDecodeAttestation(data []byte) (string, *Attestation, error) {
	unpacked, err := attestationArgs.Unpack(data)
	if err != nil {
		return "", nil, errorsmod.Wrapf(ErrInvalidAttestationData, "failed to ABI decode attestation: %v", err)
	}

	if len(unpacked) != len(attestationArgs) {
		return "", nil, errorsmod.Wrapf(ErrInvalidAttestationData, "invalid attestation: expected %d fields", len(attestationArgs))
	}

	chainID, ok := unpacked[0].(string)
	if !ok {
		return "", nil, errorsmod.Wrap(ErrInvalidAttestationData, "invalid chain-id type")
	}
	revisionNumber, ok := unpacked[1].(uint64)
	if !ok {
		return "", nil, errorsmod.Wrap(ErrInvalidAttestationData, "invalid revision number type")
	}
	revisionHeight, ok := unpacked[2].(uint64)
	if !ok {
		return "", nil, errorsmod.Wrap(ErrInvalidAttestationData, "invalid revision height type")
	}
	key, ok := unpacked[3].([]byte)
	if !ok {
		return "", nil, errorsmod.Wrap(ErrInvalidAttestationData, "invalid key type")
	}
	kind, ok := unpacked[4].(uint8)
	if !ok {
		return "", nil, errorsmod.Wrap(ErrInvalidAttestationData, "invalid kind type")
	}
	value, ok := unpacked[5].([]byte)
	if !ok {
		return "", nil, errorsmod.Wrap(ErrInvalidAttestationData, "invalid value type")
	}

	attestation := &Attestation{
		Height: clienttypes.NewHeight(revisionNumber, revisionHeight),
		Key:    key,
		Value:  AttestedValue{Kind: AttestationKind(kind)},
	}
	if len(value) > 0 {
		attestation.Value.Value = value
	}

	return chainID, attestation, nil
}
