package rollup_test

import (
	"math"
	"math/big"
	"time"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	rollup "github.com/cosmos/ibc-lightclients/modules/light-clients/15-rollup"
)

func (s *RollupTestSuite) TestHeaderValidateBasic() {
	var header *rollup.Header

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success", func() {}, nil,
		},
		{
			"zero L1 height", func() {
				header.L1Height = clienttypes.ZeroHeight()
			}, rollup.ErrInvalidHeader,
		},
		{
			"nil L2 header", func() {
				header.L2Header = nil
			}, rollup.ErrInvalidHeader,
		},
		{
			"zero block number", func() {
				header.L2Header.Number = big.NewInt(0)
			}, rollup.ErrInvalidHeader,
		},
		{
			"block number overflows", func() {
				header.L2Header.Number = new(big.Int).Lsh(big.NewInt(1), 64)
			}, rollup.ErrInvalidHeader,
		},
		{
			"zero block time", func() {
				header.L2Header.Time = 0
			}, rollup.ErrInvalidHeader,
		},
		{
			"block time overflows", func() {
				header.L2Header.Time = math.MaxUint64
			}, rollup.ErrInvalidHeader,
		},
		{
			"empty L2 header proof", func() {
				header.L2HeaderProof = commitmenttypes.StorageProof{}
			}, rollup.ErrInvalidHeader,
		},
		{
			"empty IBC account proof", func() {
				header.L2IBCAccountProof = commitmenttypes.AccountProof{}
			}, rollup.ErrInvalidHeader,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			header, _ = s.rollupHeader(trustedBlock+1, s.storage)

			tc.malleate()

			err := header.ValidateBasic()
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *RollupTestSuite) TestHeaderConsensusState() {
	header, _ := s.rollupHeader(trustedBlock+3, s.storage)

	s.Require().Equal(clienttypes.NewHeight(0, trustedBlock+3), header.GetHeight())
	s.Require().Equal(blockTime.Add(6*time.Second), header.GetTime())

	consensusState := header.ConsensusState()
	s.Require().NoError(consensusState.ValidateBasic())
	s.Require().Equal(header.L2Header.Root, consensusState.GetStateRoot())
	s.Require().Equal(s.storage.Root().Bytes(), consensusState.GetRoot().GetHash())
	s.Require().Equal(header.GetTime(), consensusState.GetTime())
}

func (s *RollupTestSuite) TestHeaderRoundTrip() {
	header, _ := s.rollupHeader(trustedBlock+1, s.storage)

	bz, err := clienttypes.MarshalClientMessage(s.cdc, header)
	s.Require().NoError(err)

	decoded, err := clienttypes.UnmarshalClientMessage(s.cdc, bz)
	s.Require().NoError(err)
	s.Require().Equal(header.L2Header.Hash(), decoded.(*rollup.Header).L2Header.Hash())
}
