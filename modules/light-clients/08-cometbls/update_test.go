package cometbls_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
	cometbls "github.com/cosmos/ibc-lightclients/modules/light-clients/08-cometbls"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
	ibctesting "github.com/cosmos/ibc-lightclients/testing"
)

func (s *CometBLSTestSuite) TestVerifyHeader() {
	var (
		header exported.ClientMessage
		now    time.Time
	)

	adjacentTime := s.headerTime.Add(time.Minute)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: adjacent header", func() {}, nil,
		},
		{
			"success: non-adjacent header", func() {
				header = s.header(7, adjacentTime, height)
			}, nil,
		},
		{
			"success: non-adjacent header signed by a rotated validator set", func() {
				rotated := ibctesting.NewCometBLSValidators(2, 5, 5, 5, 5)
				header = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: chainID, Height: 7, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: rotated, TrustedVals: s.vals.ValSet, Prover: s.prover,
				})
			}, nil,
		},
		{
			"success: exactly two thirds of the voting power signed", func() {
				header = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: chainID, Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, Signers: []int{0, 2}, Prover: s.prover,
				})
			}, nil,
		},
		{
			"success: header time equal to now plus max clock drift", func() {
				header = s.header(5, now.Add(maxClockDrift), height)
			}, nil,
		},
		{
			"success: duplicate of a trusted header after the trusting period", func() {
				s.update(s.header(5, adjacentTime, height))
				header = s.header(5, adjacentTime, height)
				now = s.headerTime.Add(trustingPeriod * 2)
			}, nil,
		},
		{
			"unsupported client message", func() {
				header = &mock.Header{}
			}, clienttypes.ErrInvalidClientType,
		},
		{
			"empty header", func() {
				header = &cometbls.Header{}
			}, cometbls.ErrInvalidHeader,
		},
		{
			"chain-id does not match the client", func() {
				header = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: "other-1", Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, Prover: s.prover,
				})
			}, cometbls.ErrInvalidChainID,
		},
		{
			"trusted consensus state not found", func() {
				header = s.header(5, adjacentTime, clienttypes.NewHeight(1, 3))
			}, clienttypes.ErrConsensusStateNotFound,
		},
		{
			"header time not after the trusted time", func() {
				header = s.header(5, s.headerTime, height)
			}, cometbls.ErrUntrustedHeaderNotNewer,
		},
		{
			"trusting period elapsed", func() {
				now = s.headerTime.Add(trustingPeriod)
			}, cometbls.ErrTrustingPeriodExpired,
		},
		{
			"header from the future", func() {
				header = s.header(5, now.Add(maxClockDrift).Add(time.Nanosecond), height)
			}, cometbls.ErrHeaderFromFuture,
		},
		{
			"trusted validators do not match the trusted consensus state", func() {
				other := ibctesting.NewCometBLSValidators(3, 10, 10, 10)
				header = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: chainID, Height: 7, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, TrustedVals: other.ValSet, Prover: s.prover,
				})
			}, cometbls.ErrInvalidValidatorSet,
		},
		{
			"adjacent header signed by a different validator set", func() {
				rotated := ibctesting.NewCometBLSValidators(2, 10, 10, 10)
				header = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: chainID, Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: rotated, TrustedVals: s.vals.ValSet, Prover: s.prover,
				})
			}, cometbls.ErrInvalidValidatorSet,
		},
		{
			"less than two thirds of the voting power signed", func() {
				header = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: chainID, Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, Signers: []int{1}, Prover: s.prover,
				})
			}, quorum.ErrInsufficientVotingPower,
		},
		{
			"validator address does not match the signing set", func() {
				cbHeader := s.header(5, adjacentTime, height)
				sig := &cbHeader.SignedHeader.Commit.Signatures[1]
				sig.ValidatorAddress = ibctesting.FlipByte(sig.ValidatorAddress, 0)
				header = cbHeader
			}, cometbls.ErrInvalidCommit,
		},
		{
			"commit entries carry different signatures", func() {
				cbHeader := s.header(5, adjacentTime, height)
				sig := &cbHeader.SignedHeader.Commit.Signatures[2]
				sig.Signature = ibctesting.AggregateSign(s.vals.Keys, []byte("other vote"), cometbls.SignatureDST)
				header = cbHeader
			}, quorum.ErrMultipleSignaturesProvided,
		},
		{
			"aggregate signature over another vote", func() {
				cbHeader := s.header(5, adjacentTime, height)
				forged := ibctesting.AggregateSign(s.vals.Keys, []byte("other vote"), cometbls.SignatureDST)
				for i := range cbHeader.SignedHeader.Commit.Signatures {
					cbHeader.SignedHeader.Commit.Signatures[i].Signature = forged
				}
				header = cbHeader
			}, quorum.ErrSignatureVerificationFailed,
		},
		{
			"proof attests another transition", func() {
				cbHeader := s.header(5, adjacentTime, height)
				cbHeader.ZeroKnowledgeProof = s.prover.Prove(cometbls.ZKPublicInputs(
					s.vals.ValSet.Hash(), s.vals.ValSet.Hash(), []byte("another block"),
				))
				header = cbHeader
			}, cometbls.ErrInvalidZKP,
		},
		{
			"proof generated for another verifying key", func() {
				header = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: chainID, Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, Prover: ibctesting.NewGroth16Prover(2),
				})
			}, cometbls.ErrInvalidZKP,
		},
		{
			"proof is malformed", func() {
				cbHeader := s.header(5, adjacentTime, height)
				cbHeader.ZeroKnowledgeProof = make([]byte, cometbls.ZKProofSize)
				cbHeader.ZeroKnowledgeProof[0] = 0xff
				header = cbHeader
			}, cometbls.ErrInvalidZKP,
		},
		{
			"client is frozen", func() {
				s.module.UpdateStateOnMisbehaviour(clientID, s.header(5, adjacentTime, height))
			}, clienttypes.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			now = s.now
			header = s.header(5, adjacentTime, height)

			tc.malleate()

			err := s.module.VerifyClientMessage(now, clientID, header)

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *CometBLSTestSuite) TestUpdateState() {
	s.initClient()

	header := s.header(7, s.headerTime.Add(time.Minute), height)
	s.update(header)

	s.Require().Equal(header.GetHeight(), s.clientState().LatestHeight)
	s.Require().Equal(header.ConsensusState(), s.consensusState(header.GetHeight()))
	s.Require().Equal(exported.Active, s.module.Status(s.now, clientID))

	// a header below the latest height fills a gap without lowering the latest height
	gap := s.header(5, s.headerTime.Add(30*time.Second), height)
	s.update(gap)

	s.Require().Equal(header.GetHeight(), s.clientState().LatestHeight)
	s.Require().Equal(gap.ConsensusState(), s.consensusState(gap.GetHeight()))

	// a duplicate leaves the state untouched
	heights := s.module.UpdateState(clientID, header)
	s.Require().Equal([]exported.Height{header.GetHeight()}, heights)
	s.Require().Equal(header.GetHeight(), s.clientState().LatestHeight)
}

func (s *CometBLSTestSuite) TestCheckForMisbehaviour() {
	var clientMsg exported.ClientMessage

	headerTime := s.headerTime.Add(time.Minute)

	testCases := []struct {
		name         string
		malleate     func()
		expMisbehave bool
	}{
		{
			"header at a new height", func() {
				clientMsg = s.header(5, headerTime, height)
			}, false,
		},
		{
			"duplicate of a stored header", func() {
				s.update(s.header(5, headerTime, height))
				clientMsg = s.header(5, headerTime, height)
			}, false,
		},
		{
			"header conflicting with a stored consensus state", func() {
				s.update(s.header(5, headerTime, height))
				clientMsg = s.header(5, headerTime.Add(time.Second), height)
			}, true,
		},
		{
			"misbehaviour with two blocks at the same height", func() {
				clientMsg = cometbls.NewMisbehaviour(clientID, s.header(5, headerTime, height), s.header(5, headerTime.Add(time.Second), height))
			}, true,
		},
		{
			"misbehaviour with identical headers", func() {
				clientMsg = cometbls.NewMisbehaviour(clientID, s.header(5, headerTime, height), s.header(5, headerTime, height))
			}, false,
		},
		{
			"unsupported client message", func() {
				clientMsg = &mock.Header{}
			}, false,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			tc.malleate()

			s.Require().Equal(tc.expMisbehave, s.module.CheckForMisbehaviour(clientID, clientMsg))
		})
	}
}

func (s *CometBLSTestSuite) TestUpdateStateOnMisbehaviour() {
	s.initClient()

	misbehaviour := cometbls.NewMisbehaviour(clientID,
		s.header(5, s.headerTime.Add(time.Minute), height),
		s.header(5, s.headerTime.Add(2*time.Minute), height),
	)
	s.module.UpdateStateOnMisbehaviour(clientID, misbehaviour)

	s.Require().Equal(misbehaviour.Header1.GetHeight(), s.clientState().FrozenHeight)
	s.Require().Equal(exported.Frozen, s.module.Status(s.now, clientID))

	// frozen is terminal
	err := s.module.VerifyClientMessage(s.now, clientID, s.header(6, s.headerTime.Add(time.Minute), height))
	s.Require().ErrorIs(err, clienttypes.ErrClientFrozen)
	s.Require().Equal(exported.Frozen, s.module.Status(s.now, clientID))
}
