package tendermint_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
	ibctesting "github.com/cosmos/ibc-lightclients/testing"
)

// forkHeader returns a header at blockHeight committing to a different app hash than s.header.
func (s *TendermintTestSuite) forkHeader(blockHeight int64, timestamp time.Time, trustedHeight clienttypes.Height) *ibctm.Header {
	return ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
		ChainID:       chainID,
		Height:        blockHeight,
		Time:          timestamp,
		AppHash:       []byte("fork app hash"),
		TrustedHeight: trustedHeight,
		Vals:          s.vals,
		TrustedVals:   s.vals.ValSet,
	})
}

func (s *TendermintTestSuite) TestMisbehaviour() {
	misbehaviour := ibctm.NewMisbehaviour(clientID, s.header(5, s.headerTime, height), s.forkHeader(5, s.headerTime, height))

	s.Require().Equal(exported.Tendermint, misbehaviour.ClientType())
	s.Require().True(s.headerTime.Equal(misbehaviour.GetTime()))

	misbehaviour.Header2 = s.forkHeader(5, s.headerTime.Add(time.Minute), height)
	s.Require().True(s.headerTime.Add(time.Minute).Equal(misbehaviour.GetTime()))
}

func (s *TendermintTestSuite) TestMisbehaviourValidateBasic() {
	var misbehaviour *ibctm.Misbehaviour

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"valid fork misbehaviour", func() {}, nil,
		},
		{
			"valid time misbehaviour, Header1 height is greater than Header2 height", func() {
				misbehaviour.Header1 = s.header(6, s.headerTime, height)
			}, nil,
		},
		{
			"valid misbehaviour with different trusted heights", func() {
				misbehaviour.Header2 = s.forkHeader(5, s.headerTime, clienttypes.NewHeight(1, 3))
			}, nil,
		},
		{
			"Header1 is nil", func() {
				misbehaviour.Header1 = nil
			}, ibctm.ErrInvalidHeader,
		},
		{
			"Header2 is nil", func() {
				misbehaviour.Header2 = nil
			}, ibctm.ErrInvalidHeader,
		},
		{
			"Header1 has zero trusted height", func() {
				misbehaviour.Header1.TrustedHeight = clienttypes.ZeroHeight()
			}, ibctm.ErrInvalidHeaderHeight,
		},
		{
			"Header2 has zero trusted height", func() {
				misbehaviour.Header2.TrustedHeight = clienttypes.ZeroHeight()
			}, ibctm.ErrInvalidHeaderHeight,
		},
		{
			"Header1 trusted validators is nil", func() {
				misbehaviour.Header1.TrustedValidators = nil
			}, ibctm.ErrInvalidValidatorSet,
		},
		{
			"Header2 trusted validators is nil", func() {
				misbehaviour.Header2.TrustedValidators = nil
			}, ibctm.ErrInvalidValidatorSet,
		},
		{
			"invalid client ID", func() {
				misbehaviour.ClientId = "GAIA"
			}, host.ErrInvalidID,
		},
		{
			"Header1 fails ValidateBasic", func() {
				misbehaviour.Header1.ValidatorSet = nil
			}, clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"Header2 fails ValidateBasic", func() {
				misbehaviour.Header2.TrustedHeight = clienttypes.NewHeight(1, 5)
			}, clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"mismatched chain-ids", func() {
				misbehaviour.Header2 = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID:       "ethermint-1",
					Height:        5,
					Time:          s.headerTime,
					AppHash:       s.appHash,
					TrustedHeight: height,
					Vals:          s.vals,
					TrustedVals:   s.vals.ValSet,
				})
			}, clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"Header1 height is less than Header2 height", func() {
				misbehaviour.Header2 = s.forkHeader(6, s.headerTime, height)
			}, clienttypes.ErrInvalidMisbehaviour,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			misbehaviour = ibctm.NewMisbehaviour(clientID, s.header(5, s.headerTime, height), s.forkHeader(5, s.headerTime, height))

			tc.malleate()

			err := misbehaviour.ValidateBasic()

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
