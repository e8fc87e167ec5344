package keeper_test

import (
	"strings"
	"time"

	metrics "github.com/hashicorp/go-metrics"

	"github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
)

func (suite *KeeperTestSuite) TestClientMetrics() {
	sink := metrics.NewInmemSink(time.Minute, time.Minute)
	cfg := metrics.DefaultConfig("")
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false
	_, err := metrics.NewGlobal(cfg, sink)
	suite.Require().NoError(err)

	clientID := suite.createMockClient()
	_, err = suite.keeper.UpdateClient(suite.app.Now, clientID, &mock.Header{Height: types.NewHeight(0, 2), Timestamp: 2})
	suite.Require().NoError(err)
	suite.freeze(clientID)

	// rejected operations are not counted
	_, err = suite.keeper.UpdateClient(suite.app.Now, clientID, &mock.Header{Height: types.NewHeight(0, 3), Timestamp: 3})
	suite.Require().Error(err)

	counters := make(map[string]int)
	for _, interval := range sink.Data() {
		interval.RLock()
		for key, value := range interval.Counters {
			name, _, _ := strings.Cut(key, ";")
			counters[name] += value.Count
			if name == "ibc.client.create" {
				suite.Require().Contains(key, "client_id="+clientID)
			}
		}
		interval.RUnlock()
	}

	suite.Require().Equal(map[string]int{
		"ibc.client.create":       1,
		"ibc.client.update":       1,
		"ibc.client.misbehaviour": 1,
	}, counters)
}
