package ibctesting

import (
	dbm "github.com/cosmos/cosmos-db"

	"cosmossdk.io/store/dbadapter"
	storetypes "cosmossdk.io/store/types"
)

// NewKVStore returns an empty in-memory KVStore backed by a cosmos-db MemDB.
func NewKVStore() storetypes.KVStore {
	return &dbadapter.Store{DB: dbm.NewMemDB()}
}
