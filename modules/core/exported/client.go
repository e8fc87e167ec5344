package exported

import (
	"time"

	storetypes "cosmossdk.io/store/types"
)

// ModuleName is the name of the IBC light client verification core.
const ModuleName = "ibc"

// Status represents the status of a client
type Status string

const (
	// TypeClientMisbehaviour is the shared evidence misbehaviour type
	TypeClientMisbehaviour string = "client_misbehaviour"

	// Tendermint is used to indicate that the client uses the Tendermint Consensus Algorithm.
	Tendermint string = "07-tendermint"

	// CometBLS is used to indicate that the client tracks a CometBFT chain signing with
	// BLS12-381 keys whose transitions are additionally attested by a zero-knowledge proof.
	CometBLS string = "08-cometbls"

	// Attestations is used to indicate that the client trusts a quorum of off-chain attestors.
	Attestations string = "10-attestations"

	// Ethereum is used to indicate that the client follows the beacon chain sync committee protocol.
	Ethereum string = "12-ethereum"

	// Rollup is used to indicate that the client inherits trust from an L1 client which
	// settles the rollup's state roots.
	Rollup string = "15-rollup"

	// Active is a status type of a client. An active client is allowed to be used.
	Active Status = "Active"

	// Frozen is a status type of a client. A frozen client is not allowed to be used.
	Frozen Status = "Frozen"

	// Expired is a status type of a client. An expired client is not allowed to be used.
	Expired Status = "Expired"

	// Unknown indicates there was an error in determining the status of a client.
	Unknown Status = "Unknown"
)

// ClientStoreProvider is an interface which gives access to the client prefixed stores.
// It is implemented by the 02-client module and handed to light client modules on construction.
type ClientStoreProvider interface {
	// ClientStore returns the prefixed store of the provided client.
	ClientStore(clientID string) storetypes.KVStore
}

// LightClientModule is the single capability surface every consensus flavor implements.
// The host selects one implementation per client type at construction time.
//
// Methods which depend on the current time take it as an argument. Light client
// modules must never read the wall clock so that every node reaches the same
// result for the same inputs.
type LightClientModule interface {
	// Initialize is called upon client creation, it allows the client to perform validation on the client state and initial consensus state.
	// The light client module is responsible for setting any client-specific data in the store. This includes the client state,
	// initial consensus state and any associated metadata.
	Initialize(clientID string, clientState, consensusState []byte) error

	// VerifyClientMessage must verify a ClientMessage. A ClientMessage could be a Header or Misbehaviour.
	// It must handle each type of ClientMessage appropriately. Calls to CheckForMisbehaviour, UpdateState, and UpdateStateOnMisbehaviour
	// will assume that the content of the ClientMessage has been verified and can be trusted. An error should be returned
	// if the ClientMessage fails to verify.
	VerifyClientMessage(now time.Time, clientID string, clientMsg ClientMessage) error

	// CheckForMisbehaviour checks for evidence of a misbehaviour in Header or Misbehaviour type. It assumes the ClientMessage
	// has already been verified.
	CheckForMisbehaviour(clientID string, clientMsg ClientMessage) bool

	// UpdateStateOnMisbehaviour should perform appropriate state changes on a client state given that misbehaviour has been detected and verified
	UpdateStateOnMisbehaviour(clientID string, clientMsg ClientMessage)

	// UpdateState updates and stores as necessary any associated information for an IBC client, such as the ClientState and corresponding ConsensusState.
	// Upon successful update, a list of consensus heights is returned. It assumes the ClientMessage has already been verified.
	UpdateState(clientID string, clientMsg ClientMessage) []Height

	// VerifyMembership is a generic proof verification method which verifies a proof of the existence of a value at a given CommitmentPath at the specified height.
	VerifyMembership(clientID string, height Height, proof []byte, path Path, value []byte) error

	// VerifyNonMembership is a generic proof verification method which verifies the absence of a given CommitmentPath at a specified height.
	VerifyNonMembership(clientID string, height Height, proof []byte, path Path) error

	// Status must return the status of the client. Only Active clients are allowed to process packets.
	Status(now time.Time, clientID string) Status

	// LatestHeight returns the latest height of the client. If no client is present for the provided client identifier a zero value height may be returned.
	LatestHeight(clientID string) Height

	// TimestampAtHeight must return the timestamp for the consensus state associated with the provided height.
	TimestampAtHeight(clientID string, height Height) (uint64, error)

	// CounterpartyChainID returns the chain identifier of the chain tracked by the client.
	CounterpartyChainID(clientID string) (string, error)
}

// ClientState defines the required common functions for light clients.
type ClientState interface {
	ClientType() string
	GetLatestHeight() Height
	Validate() error
}

// ClientReferrer is implemented by client states which read the consensus states of other clients.
// The referenced clients must exist and must not refer back, directly or transitively.
type ClientReferrer interface {
	ReferencedClients() []string
}

// ConsensusState is the state of the consensus process
type ConsensusState interface {
	ClientType() string // Consensus kind

	// GetRoot returns the commitment root of the consensus state,
	// which is used for key-value pair verification.
	GetRoot() Root

	// GetTimestamp returns the timestamp (in nanoseconds) of the consensus state
	GetTimestamp() uint64

	ValidateBasic() error
}

// ClientMessage is an interface used to update an IBC client.
// The update may be done by a single header, a batch of headers, misbehaviour, or any type which when verified produces
// a change to state of the IBC client
type ClientMessage interface {
	ClientType() string
	ValidateBasic() error
}

// Root is a commitment root.
// A root is constructed from a set of key-value pairs,
// and the inclusion or non-inclusion of an arbitrary key-value pair
// can be proven with the proof.
type Root interface {
	GetHash() []byte
	Empty() bool
}

// Path is a commitment path.
// A path is the additional information provided to the verification function.
type Path interface {
	Empty() bool
}

// Height is a wrapper interface over clienttypes.Height
// all clients must use the concrete implementation in types
type Height interface {
	IsZero() bool
	LT(Height) bool
	LTE(Height) bool
	EQ(Height) bool
	GT(Height) bool
	GTE(Height) bool
	GetRevisionNumber() uint64
	GetRevisionHeight() uint64
	Increment() Height
	Decrement() (Height, bool)
	String() string
}

// String returns the string representation of a client status.
func (s Status) String() string {
	return string(s)
}
