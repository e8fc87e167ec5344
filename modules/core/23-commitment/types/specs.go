package types

import (
	"io"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"

	"github.com/ethereum/go-ethereum/rlp"
)

// ProofSpecs is the ordered list of proof specs a chained MerkleProof is verified with,
// from the lowest subtree to the root.
type ProofSpecs []*ics23.ProofSpec

// EncodeRLP encodes every spec with its canonical protobuf encoding.
func (specs ProofSpecs) EncodeRLP(w io.Writer) error {
	bzs := make([][]byte, len(specs))
	for i, spec := range specs {
		bz, err := spec.Marshal()
		if err != nil {
			return err
		}
		bzs[i] = bz
	}

	return rlp.Encode(w, bzs)
}

// DecodeRLP implements rlp.Decoder.
func (specs *ProofSpecs) DecodeRLP(s *rlp.Stream) error {
	var bzs [][]byte
	if err := s.Decode(&bzs); err != nil {
		return err
	}

	decoded := make(ProofSpecs, len(bzs))
	for i, bz := range bzs {
		decoded[i] = &ics23.ProofSpec{}
		if err := decoded[i].Unmarshal(bz); err != nil {
			return err
		}
	}

	*specs = decoded
	return nil
}

// ValidateProofSpecs checks that every spec is set and declares a leaf operation.
func ValidateProofSpecs(specs []*ics23.ProofSpec) error {
	if len(specs) == 0 {
		return errorsmod.Wrap(ErrInvalidProofSpecs, "proof specs cannot be empty")
	}

	for i, spec := range specs {
		if spec == nil {
			return errorsmod.Wrapf(ErrInvalidProofSpecs, "proof spec cannot be nil at index: %d", i)
		}
		if spec.LeafSpec == nil || spec.InnerSpec == nil {
			return errorsmod.Wrapf(ErrInvalidProofSpecs, "proof spec at index %d must define leaf and inner specs", i)
		}
	}

	return nil
}
