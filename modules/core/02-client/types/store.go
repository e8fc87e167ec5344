package types

import (
	"fmt"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientStoreProvider = (*storeProvider)(nil)

// storeProvider implements the exported.ClientStoreProvider interface and encapsulates the IBC core store.
type storeProvider struct {
	store storetypes.KVStore
}

// NewStoreProvider creates and returns a new ClientStoreProvider.
func NewStoreProvider(store storetypes.KVStore) exported.ClientStoreProvider {
	return storeProvider{
		store: store,
	}
}

// ClientStore returns isolated prefix store for each client so they can read/write in separate namespaces.
func (s storeProvider) ClientStore(clientID string) storetypes.KVStore {
	clientPrefix := []byte(fmt.Sprintf("%s/%s/", host.KeyClientStorePrefix, clientID))
	return prefix.NewStore(s.store, clientPrefix)
}
