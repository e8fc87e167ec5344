package ibctesting

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	attestations "github.com/cosmos/ibc-lightclients/modules/light-clients/10-attestations"
)

// Attestors is a set of deterministic secp256k1 attestor keys.
type Attestors struct {
	Keys      []*ecdsa.PrivateKey
	Addresses []common.Address
}

// NewAttestors derives n attestor keys from seed.
func NewAttestors(seed uint64, n int) Attestors {
	attestors := Attestors{
		Keys:      make([]*ecdsa.PrivateKey, n),
		Addresses: make([]common.Address, n),
	}

	for i := 0; i < n; i++ {
		var buf [16]byte
		binary.BigEndian.PutUint64(buf[:8], seed)
		binary.BigEndian.PutUint64(buf[8:], uint64(i))
		digest := sha256.Sum256(buf[:])

		key, err := crypto.ToECDSA(digest[:])
		if err != nil {
			panic(err)
		}

		attestors.Keys[i] = key
		attestors.Addresses[i] = crypto.PubkeyToAddress(key.PublicKey)
	}

	return attestors
}

// Sign returns the signatures of the attestors at the signer indexes over the digest of
// attestation bound to chainID. Signatures use the Ethereum recovery id (27/28).
func (a Attestors) Sign(tb testing.TB, chainID string, attestation attestations.Attestation, signers ...int) [][]byte {
	tb.Helper()

	digest, err := attestation.Digest(chainID)
	require.NoError(tb, err)

	signatures := make([][]byte, 0, len(signers))
	for _, idx := range signers {
		sig, err := crypto.Sign(digest[:], a.Keys[idx])
		require.NoError(tb, err)

		sig[crypto.RecoveryIDOffset] += 27
		signatures = append(signatures, sig)
	}

	return signatures
}
