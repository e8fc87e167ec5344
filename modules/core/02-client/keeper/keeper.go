package keeper

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store/cachekv"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// Keeper represents a type that grants read and write permissions to any client
// state information
type Keeper struct {
	cdc    codec.BinaryCodec
	store  storetypes.KVStore
	router *types.Router
	params types.Params
	logger log.Logger

	// branch collects the writes of the operation in progress, see runBranched
	branch *cachekv.Store
}

// NewKeeper creates a new client Keeper instance. Light client modules are registered
// with AddRoute and must be constructed with the keeper's store provider.
func NewKeeper(cdc codec.BinaryCodec, store storetypes.KVStore, params types.Params, logger log.Logger) *Keeper {
	if err := params.Validate(); err != nil {
		panic(fmt.Errorf("invalid client params: %w", err))
	}

	return &Keeper{
		cdc:    cdc,
		store:  store,
		router: types.NewRouter(),
		params: params,
		logger: logger,
	}
}

// Codec returns the keeper codec.
func (k *Keeper) Codec() codec.BinaryCodec {
	return k.cdc
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+exported.ModuleName+"/"+types.SubModuleName)
}

// AddRoute adds a new route to the underlying router.
func (k *Keeper) AddRoute(clientType string, module exported.LightClientModule) {
	k.router.AddRoute(clientType, module)
}

// GetRouter returns the light client router.
func (k *Keeper) GetRouter() *types.Router {
	return k.router
}

// GetParams returns the client parameters.
func (k *Keeper) GetParams() types.Params {
	return k.params
}

// GetStoreProvider returns the store provider light client modules are constructed with.
// Client stores handed out by it follow the branch of the operation in progress.
func (k *Keeper) GetStoreProvider() exported.ClientStoreProvider {
	return storeProvider{k: k}
}

type storeProvider struct {
	k *Keeper
}

func (p storeProvider) ClientStore(clientID string) storetypes.KVStore {
	return types.NewStoreProvider(p.k.kvStore()).ClientStore(clientID)
}

func (k *Keeper) kvStore() storetypes.KVStore {
	if k.branch != nil {
		return k.branch
	}
	return k.store
}

// runBranched runs fn against a cache of the store. The writes are committed only when fn
// returns without error, a failed operation leaves the store untouched.
func (k *Keeper) runBranched(fn func() error) error {
	if k.branch != nil {
		return fn()
	}

	k.branch = cachekv.NewStore(k.store)
	defer func() { k.branch = nil }()

	if err := fn(); err != nil {
		return err
	}

	k.branch.Write()
	return nil
}

// ClientStore returns isolated prefix store for each client so they can read/write in separate
// namespace without being able to read/write other client's data
func (k *Keeper) ClientStore(clientID string) storetypes.KVStore {
	return k.GetStoreProvider().ClientStore(clientID)
}

// Route returns the light client module for the given client identifier.
func (k *Keeper) Route(clientID string) (exported.LightClientModule, error) {
	clientType, _, err := types.ParseClientIdentifier(clientID)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrClientNotFound, "clientID (%s)", clientID)
	}

	lightClientModule, found := k.router.GetRoute(clientType)
	if !found {
		return nil, errorsmod.Wrap(types.ErrRouteNotFound, clientType)
	}

	return lightClientModule, nil
}

// GenerateClientIdentifier returns the next client identifier.
func (k *Keeper) GenerateClientIdentifier(clientType string) string {
	nextClientSeq := k.GetNextClientSequence()
	clientID := types.FormatClientIdentifier(clientType, nextClientSeq)

	k.SetNextClientSequence(nextClientSeq + 1)
	return clientID
}

// GetNextClientSequence gets the next client sequence from the store.
func (k *Keeper) GetNextClientSequence() uint64 {
	bz := k.kvStore().Get(host.NextClientSequenceKey())
	if len(bz) == 0 {
		return 0
	}

	return binary.BigEndian.Uint64(bz)
}

// SetNextClientSequence sets the next client sequence to the store.
func (k *Keeper) SetNextClientSequence(sequence uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, sequence)
	k.kvStore().Set(host.NextClientSequenceKey(), bz)
}

// GetClientType returns the type of a client created through the keeper.
func (k *Keeper) GetClientType(clientID string) (string, bool) {
	bz := k.ClientStore(clientID).Get(host.ClientTypeKey())
	if len(bz) == 0 {
		return "", false
	}

	return string(bz), true
}

// GetClientReferences returns the clients whose consensus states clientID reads.
func (k *Keeper) GetClientReferences(clientID string) ([]string, bool) {
	if _, found := k.GetClientType(clientID); !found {
		return nil, false
	}

	var references []string
	if bz := k.ClientStore(clientID).Get(host.ClientReferencesKey()); len(bz) > 0 {
		k.cdc.MustUnmarshal(bz, &references)
	}

	return references, true
}

func (k *Keeper) setClientMetadata(clientID, clientType string, references []string) {
	clientStore := k.ClientStore(clientID)
	clientStore.Set(host.ClientTypeKey(), []byte(clientType))
	if len(references) > 0 {
		clientStore.Set(host.ClientReferencesKey(), k.cdc.MustMarshal(references))
	}
}

// GetClientState gets a particular client from the store
func (k *Keeper) GetClientState(clientID string) (exported.ClientState, bool) {
	clientState, err := types.NewVerificationContext(k.cdc, k.GetStoreProvider(), clientID).ReadSelfClientState()
	if err != nil {
		return nil, false
	}

	return clientState, true
}

// GetClientConsensusState gets the stored consensus state from a client at a given height.
func (k *Keeper) GetClientConsensusState(clientID string, height exported.Height) (exported.ConsensusState, bool) {
	consensusState, err := types.NewVerificationContext(k.cdc, k.GetStoreProvider(), clientID).ReadSelfConsensusState(height)
	if err != nil {
		return nil, false
	}

	return consensusState, true
}

// GetClientStatus returns the status of a client. A client which reads the consensus states
// of other clients is only as live as they are: the first referenced client which is not
// Active determines its status.
func (k *Keeper) GetClientStatus(now time.Time, clientID string) exported.Status {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return exported.Unknown
	}

	status := lightClientModule.Status(now, clientID)
	if status != exported.Active {
		return status
	}

	references, _ := k.GetClientReferences(clientID)
	for _, ref := range references {
		if refStatus := k.GetClientStatus(now, ref); refStatus != exported.Active {
			return refStatus
		}
	}

	return exported.Active
}

// GetLatestHeight returns the latest height of a client state for a given client identifier. If the client type is not in the allowed
// clients param field, a zero value height is returned, otherwise the client state latest height is returned.
func (k *Keeper) GetLatestHeight(clientID string) exported.Height {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return types.ZeroHeight()
	}

	return lightClientModule.LatestHeight(clientID)
}

// GetClientTimestampAtHeight returns the timestamp in nanoseconds of the consensus state at the given height.
func (k *Keeper) GetClientTimestampAtHeight(clientID string, height exported.Height) (uint64, error) {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return 0, err
	}

	return lightClientModule.TimestampAtHeight(clientID, height)
}

// GetCounterpartyChainID returns the chain identifier tracked by the client.
func (k *Keeper) GetCounterpartyChainID(clientID string) (string, error) {
	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return "", err
	}

	return lightClientModule.CounterpartyChainID(clientID)
}

// GetAllClientIDs returns the identifiers of every client created through the keeper in
// lexicographic order.
func (k *Keeper) GetAllClientIDs() []string {
	keyPrefix := []byte(fmt.Sprintf("%s/", host.KeyClientStorePrefix))
	suffix := "/" + host.KeyClientType

	iterator := storetypes.KVStorePrefixIterator(k.kvStore(), keyPrefix)
	defer iterator.Close()

	var clientIDs []string
	for ; iterator.Valid(); iterator.Next() {
		key := string(iterator.Key()[len(keyPrefix):])
		if clientID, ok := strings.CutSuffix(key, suffix); ok && !strings.Contains(clientID, "/") {
			clientIDs = append(clientIDs, clientID)
		}
	}

	return clientIDs
}

// GetConsensusStateHeights returns the heights of the consensus states stored by a client
// in ascending store key order.
func (k *Keeper) GetConsensusStateHeights(clientID string) ([]exported.Height, error) {
	if _, found := k.GetClientType(clientID); !found {
		return nil, errorsmod.Wrap(types.ErrClientNotFound, clientID)
	}

	keyPrefix := []byte(host.KeyConsensusStatePrefix + "/")
	iterator := storetypes.KVStorePrefixIterator(k.ClientStore(clientID), keyPrefix)
	defer iterator.Close()

	var heights []exported.Height
	for ; iterator.Valid(); iterator.Next() {
		height, err := types.ParseHeight(string(iterator.Key()[len(keyPrefix):]))
		if err != nil {
			// light clients may keep metadata under the consensus state prefix
			continue
		}
		heights = append(heights, height)
	}

	return heights, nil
}
