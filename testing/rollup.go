package ibctesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	rollup "github.com/cosmos/ibc-lightclients/modules/light-clients/15-rollup"
)

// RollupHeaderConfig configures the L2 block proven by CreateRollupHeader.
type RollupHeaderConfig struct {
	ClientState *rollup.ClientState
	L1Height    clienttypes.Height
	Number      uint64
	// Time of the L2 block in seconds.
	Time uint64
	// Storage of the IBC contract on L2. A single word is stored when nil.
	Storage *StorageTrie
}

// CreateRollupHeader builds an L2 block whose hash is committed by the rollup contract and
// returns the header proving it together with the L1 state root the proofs are against.
func CreateRollupHeader(cfg RollupHeaderConfig) (*rollup.Header, common.Hash) {
	storage := cfg.Storage
	if storage == nil {
		storage = NewStorageTrie()
		storage.Set(common.HexToHash("0x01"), common.HexToHash("0x01"))
	}

	l2State := NewStateTrie()
	l2State.SetAccount(cfg.ClientState.IBCContractAddress, storage.Root())
	l2State.SetAccount(common.HexToAddress("0xdead"), common.Hash{})

	l2Header := &types.Header{
		ParentHash: common.BigToHash(new(big.Int).SetUint64(cfg.Number - 1)),
		Coinbase:   common.HexToAddress("0xc0ffee"),
		Root:       l2State.Root(),
		Difficulty: big.NewInt(0),
		Number:     new(big.Int).SetUint64(cfg.Number),
		GasLimit:   30_000_000,
		Time:       cfg.Time,
	}

	rollupStorage := NewStorageTrie()
	slot := cfg.ClientState.L2BlockHashSlot(l2Header.Number)
	rollupStorage.Set(slot, l2Header.Hash())
	rollupStorage.Set(cfg.ClientState.L2BlockHashSlot(new(big.Int).SetUint64(cfg.Number+1)), common.HexToHash("0xbeef"))

	l1State := NewStateTrie()
	l1State.SetAccount(cfg.ClientState.RollupContractAddress, rollupStorage.Root())
	l1State.SetAccount(common.HexToAddress("0xdead"), common.Hash{})

	header := &rollup.Header{
		L1Height:          cfg.L1Height,
		L1AccountProof:    l1State.Prove(cfg.ClientState.RollupContractAddress),
		L2HeaderProof:     rollupStorage.Prove(slot),
		L2Header:          l2Header,
		L2IBCAccountProof: l2State.Prove(cfg.ClientState.IBCContractAddress),
		L2IBCStorageRoot:  storage.Root(),
	}

	return header, l1State.Root()
}
