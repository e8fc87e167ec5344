package ethereum

import (
	errorsmod "cosmossdk.io/errors"

	bitfield "github.com/prysmaticlabs/go-bitfield"

	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// Sync committee sizes of the minimal and mainnet presets.
const (
	SyncCommitteeSizeMinimal = 32
	SyncCommitteeSizeMainnet = 512
)

// DomainSyncCommittee is the domain type of sync committee signatures.
var DomainSyncCommittee = [4]byte{0x07, 0x00, 0x00, 0x00}

// SyncCommittee is the set of validators signing beacon headers during one period.
type SyncCommittee struct {
	PubKeys         [][]byte
	AggregatePubKey []byte
}

// Validate checks that the committee holds size well formed public keys.
func (sc SyncCommittee) Validate(size uint64) error {
	if uint64(len(sc.PubKeys)) != size {
		return errorsmod.Wrapf(ErrInvalidSyncCommittee, "expected %d public keys, got %d", size, len(sc.PubKeys))
	}

	return sc.ValidateBasic()
}

// ValidateBasic checks that the committee has a supported size and that every key is a
// compressed G1 point encoding.
func (sc SyncCommittee) ValidateBasic() error {
	if n := len(sc.PubKeys); n != SyncCommitteeSizeMinimal && n != SyncCommitteeSizeMainnet {
		return errorsmod.Wrapf(ErrInvalidSyncCommittee, "unsupported sync committee size %d", n)
	}
	for i, pubKey := range sc.PubKeys {
		if len(pubKey) != quorum.BLSPubKeySize {
			return errorsmod.Wrapf(ErrInvalidSyncCommittee, "public key %d must be %d bytes, got %d", i, quorum.BLSPubKeySize, len(pubKey))
		}
	}
	if len(sc.AggregatePubKey) != quorum.BLSPubKeySize {
		return errorsmod.Wrapf(ErrInvalidSyncCommittee, "aggregate public key must be %d bytes, got %d", quorum.BLSPubKeySize, len(sc.AggregatePubKey))
	}

	return nil
}

// SyncAggregate is the aggregate signature of the participating members of a sync committee.
type SyncAggregate struct {
	SyncCommitteeBits      []byte
	SyncCommitteeSignature []byte
}

// ParticipationBits is satisfied by the bitvectors of every supported committee size.
type ParticipationBits interface {
	BitAt(idx uint64) bool
	Count() uint64
	Len() uint64
}

// Participation returns the participation bitvector of a committee of size members.
func (sa SyncAggregate) Participation(size uint64) (ParticipationBits, error) {
	if uint64(len(sa.SyncCommitteeBits))*8 != size {
		return nil, errorsmod.Wrapf(ErrInvalidSyncAggregate, "expected %d participation bits, got %d", size, len(sa.SyncCommitteeBits)*8)
	}

	switch size {
	case SyncCommitteeSizeMinimal:
		return bitfield.Bitvector32(sa.SyncCommitteeBits), nil
	case SyncCommitteeSizeMainnet:
		return bitfield.Bitvector512(sa.SyncCommitteeBits), nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidSyncAggregate, "unsupported sync committee size %d", size)
	}
}

// ValidateBasic checks the encoding of the signature.
func (sa SyncAggregate) ValidateBasic() error {
	if len(sa.SyncCommitteeSignature) != quorum.BLSSignatureSize {
		return errorsmod.Wrapf(ErrInvalidSyncAggregate, "signature must be %d bytes, got %d", quorum.BLSSignatureSize, len(sa.SyncCommitteeSignature))
	}

	return nil
}
