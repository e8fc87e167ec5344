package ibctesting

import (
	"time"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/keeper"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
)

// MockClientType is the client type the mock light client is routed under.
const MockClientType = mock.ModuleName

// TestingApp is an IBC keeper over an in-memory store with every light client routed,
// including the mock light client.
type TestingApp struct {
	Store     storetypes.KVStore
	IBCKeeper *keeper.Keeper
	Mock      *mock.LightClientModule

	// Now is the time handed to the keeper by the helpers of the app.
	Now time.Time
}

// NewTestingApp returns a TestingApp allowing every client type.
func NewTestingApp() *TestingApp {
	return NewTestingAppWithParams(clienttypes.NewParams(clienttypes.AllowAllClients))
}

// NewTestingAppWithParams returns a TestingApp with the provided client params.
func NewTestingAppWithParams(params clienttypes.Params) *TestingApp {
	store := NewKVStore()
	cdc := NewCodec()

	ibcKeeper := keeper.NewKeeper(cdc, store, params, log.NewNopLogger())
	mockModule := mock.NewLightClientModule(cdc, ibcKeeper.ClientKeeper.GetStoreProvider())
	ibcKeeper.ClientKeeper.AddRoute(MockClientType, mockModule)

	return &TestingApp{
		Store:     store,
		IBCKeeper: ibcKeeper,
		Mock:      mockModule,
		Now:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// CreateMockClient creates a mock client at height (0, 1) reading the consensus states of
// references.
func (app *TestingApp) CreateMockClient(references ...string) (string, error) {
	cdc := app.IBCKeeper.Codec()

	clientState, err := cdc.MarshalInterface(mock.NewClientState("mock-chain", clienttypes.NewHeight(0, 1), references...))
	if err != nil {
		return "", err
	}
	consensusState, err := cdc.MarshalInterface(&mock.ConsensusState{Timestamp: uint64(app.Now.UnixNano()), Root: []byte("root")})
	if err != nil {
		return "", err
	}

	return app.IBCKeeper.ClientKeeper.CreateClient(app.Now, MockClientType, clientState, consensusState)
}
