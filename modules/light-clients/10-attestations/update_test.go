package attestations_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
	attestations "github.com/cosmos/ibc-lightclients/modules/light-clients/10-attestations"
)

func (s *AttestationsTestSuite) TestVerifyClientMessage() {
	var (
		header    *attestations.Header
		clientMsg exported.ClientMessage
	)

	newHeight := clienttypes.NewHeight(1, 11)
	newTime := headerTime.Add(5 * time.Second)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"success: header below the latest height",
			func() {
				header = s.attestTime(clienttypes.NewHeight(1, 5), headerTime.Add(-time.Minute))
				clientMsg = header
			},
			nil,
		},
		{
			"success: re-submitted header",
			func() {
				s.module.UpdateState(clientID, header)
			},
			nil,
		},
		{
			"failure: timestamp differs from the attested one",
			func() {
				header.Timestamp++
			},
			attestations.ErrAttestationMismatch,
		},
		{
			"failure: no timestamp attested at the height",
			func() {
				header.Height = clienttypes.NewHeight(1, 12)
			},
			attestations.ErrAttestationNotFound,
		},
		{
			"failure: attested timestamp absence",
			func() {
				h := clienttypes.NewHeight(1, 12)
				s.attest(attestations.Attestation{Height: h, Key: attestations.TimestampKey, Value: attestations.NewNonExistence()})
				header.Height = h
			},
			attestations.ErrAttestationMismatch,
		},
		{
			"failure: zero timestamp",
			func() {
				header.Timestamp = 0
			},
			clienttypes.ErrInvalidHeader,
		},
		{
			"failure: zero height",
			func() {
				header.Height = clienttypes.ZeroHeight()
			},
			clienttypes.ErrInvalidHeader,
		},
		{
			"failure: revision mismatch",
			func() {
				header.Height = clienttypes.NewHeight(2, 11)
			},
			ibcerrors.ErrInvalidHeight,
		},
		{
			"failure: invalid client message type",
			func() {
				clientMsg = &ibctm.Misbehaviour{}
			},
			clienttypes.ErrInvalidClientType,
		},
		{
			"failure: client frozen",
			func() {
				s.module.UpdateStateOnMisbehaviour(clientID, header)
			},
			clienttypes.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			header = s.attestTime(newHeight, newTime)
			clientMsg = header

			tc.malleate()

			err := s.module.VerifyClientMessage(time.Time{}, clientID, clientMsg)
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *AttestationsTestSuite) TestUpdateState() {
	s.initClient()

	header := s.attestTime(clienttypes.NewHeight(1, 11), headerTime.Add(5*time.Second))
	s.update(header)

	s.Require().Equal(header.Height, s.module.LatestHeight(clientID))
	ts, err := s.module.TimestampAtHeight(clientID, header.Height)
	s.Require().NoError(err)
	s.Require().Equal(header.Timestamp, ts)

	// older heights are stored without moving the latest height back
	older := s.attestTime(clienttypes.NewHeight(1, 7), headerTime.Add(-time.Minute))
	s.update(older)
	s.Require().Equal(header.Height, s.module.LatestHeight(clientID))
	ts, err = s.module.TimestampAtHeight(clientID, older.Height)
	s.Require().NoError(err)
	s.Require().Equal(older.Timestamp, ts)

	// duplicates are a no-op
	heights := s.module.UpdateState(clientID, header)
	s.Require().Equal([]exported.Height{header.Height}, heights)
	s.Require().Equal(header.Height, s.module.LatestHeight(clientID))
}

func (s *AttestationsTestSuite) TestCheckForMisbehaviour() {
	s.initClient()

	header := s.attestTime(clienttypes.NewHeight(1, 11), headerTime.Add(5*time.Second))
	s.update(header)

	s.Require().False(s.module.CheckForMisbehaviour(clientID, header))

	conflicting := &attestations.Header{Height: header.Height, Timestamp: header.Timestamp + 1}
	s.Require().True(s.module.CheckForMisbehaviour(clientID, conflicting))

	// the stored initial consensus state conflicts with a different time at the same height
	s.Require().True(s.module.CheckForMisbehaviour(clientID, &attestations.Header{Height: height, Timestamp: uint64(headerTime.UnixNano()) + 1}))
	s.Require().False(s.module.CheckForMisbehaviour(clientID, &ibctm.Misbehaviour{}))

	s.module.UpdateStateOnMisbehaviour(clientID, conflicting)
	s.Require().Equal(exported.Frozen, s.module.Status(time.Time{}, clientID))

	clientState, err := clienttypes.GetSelfClientState[*attestations.ClientState](clienttypes.NewVerificationContext(s.cdc, s.storeProvider, clientID))
	s.Require().NoError(err)
	s.Require().Equal(header.Height, clientState.FrozenHeight)
}

func (s *AttestationsTestSuite) TestUpdateStatePanics() {
	s.initClient()

	s.Require().Panics(func() { s.module.UpdateState(clientID, &ibctm.Misbehaviour{}) })
	s.Require().Panics(func() { s.module.UpdateStateOnMisbehaviour(clientID, &ibctm.Misbehaviour{}) })
	s.Require().Panics(func() { s.module.UpdateState("10-attestations-9", &attestations.Header{}) })
}
