package attestations_test

import (
	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	attestations "github.com/cosmos/ibc-lightclients/modules/light-clients/10-attestations"
)

func (s *AttestationsTestSuite) TestAttestationValidateBasic() {
	testCases := []struct {
		name        string
		attestation attestations.Attestation
		expErr      error
	}{
		{
			"success: existence",
			attestations.Attestation{Height: height, Key: commitKey, Value: attestations.NewExistence(commitValue)},
			nil,
		},
		{
			"success: non-existence",
			attestations.Attestation{Height: height, Key: commitKey, Value: attestations.NewNonExistence()},
			nil,
		},
		{
			"failure: zero height",
			attestations.Attestation{Height: clienttypes.ZeroHeight(), Key: commitKey, Value: attestations.NewExistence(commitValue)},
			attestations.ErrInvalidAttestation,
		},
		{
			"failure: empty key",
			attestations.Attestation{Height: height, Value: attestations.NewExistence(commitValue)},
			attestations.ErrInvalidAttestation,
		},
		{
			"failure: existence without value",
			attestations.Attestation{Height: height, Key: commitKey, Value: attestations.NewExistence(nil)},
			attestations.ErrInvalidAttestation,
		},
		{
			"failure: non-existence with value",
			attestations.Attestation{Height: height, Key: commitKey, Value: attestations.AttestedValue{Kind: attestations.NonExistence, Value: commitValue}},
			attestations.ErrInvalidAttestation,
		},
		{
			"failure: unknown kind",
			attestations.Attestation{Height: height, Key: commitKey, Value: attestations.AttestedValue{Kind: 3, Value: commitValue}},
			attestations.ErrInvalidAttestation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.attestation.ValidateBasic()
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *AttestationsTestSuite) TestABIEncodeRoundTrip() {
	for _, attestation := range []attestations.Attestation{
		{Height: height, Key: commitKey, Value: attestations.NewExistence(commitValue)},
		{Height: height, Key: commitKey, Value: attestations.NewNonExistence()},
		attestations.NewTimestampAttestation(height, 1_700_000_000_000_000_000),
	} {
		bz, err := attestation.ABIEncode(chainID)
		s.Require().NoError(err)

		decodedChainID, decoded, err := attestations.ABIDecodeAttestation(bz)
		s.Require().NoError(err)
		s.Require().Equal(chainID, decodedChainID)
		s.Require().Equal(attestation, *decoded)
	}

	_, _, err := attestations.ABIDecodeAttestation([]byte{0x01, 0x02})
	s.Require().ErrorIs(err, attestations.ErrInvalidAttestationData)
}

func (s *AttestationsTestSuite) TestDigestBindsEveryField() {
	base := attestations.Attestation{Height: height, Key: commitKey, Value: attestations.NewExistence(commitValue)}
	baseDigest, err := base.Digest(chainID)
	s.Require().NoError(err)

	variants := map[string]struct {
		chainID     string
		attestation attestations.Attestation
	}{
		"chain-id":        {"attested-2", base},
		"revision number": {chainID, attestations.Attestation{Height: clienttypes.NewHeight(2, 10), Key: commitKey, Value: base.Value}},
		"revision height": {chainID, attestations.Attestation{Height: clienttypes.NewHeight(1, 11), Key: commitKey, Value: base.Value}},
		"key":             {chainID, attestations.Attestation{Height: height, Key: []byte("other"), Value: base.Value}},
		"kind":            {chainID, attestations.Attestation{Height: height, Key: commitKey, Value: attestations.NewNonExistence()}},
		"value":           {chainID, attestations.Attestation{Height: height, Key: commitKey, Value: attestations.NewExistence([]byte("other"))}},
	}

	for name, variant := range variants {
		s.Run(name, func() {
			digest, err := variant.attestation.Digest(variant.chainID)
			s.Require().NoError(err)
			s.Require().NotEqual(baseDigest, digest)
		})
	}
}

func (s *AttestationsTestSuite) TestEncodeTimestamp() {
	s.Require().Equal([]byte{0, 0, 0, 0, 0, 0, 0x01, 0x02}, attestations.EncodeTimestamp(0x0102))
}
