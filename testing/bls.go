package ibctesting

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// BLSKey is a deterministic BLS12-381 key pair with public keys in G1 and signatures in G2.
type BLSKey struct {
	secret *big.Int
	PubKey bls12381.G1Affine
}

// NewBLSKey derives a key pair from seed.
func NewBLSKey(seed uint64) *BLSKey {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seed)
	digest := sha256.Sum256(buf[:])

	var scalar fr.Element
	scalar.SetBytes(digest[:])
	secret := scalar.BigInt(new(big.Int))

	_, _, g1, _ := bls12381.Generators()

	key := &BLSKey{secret: secret}
	key.PubKey.ScalarMultiplication(&g1, secret)
	return key
}

// NewBLSKeys returns n keys derived from consecutive seeds.
func NewBLSKeys(n int) []*BLSKey {
	keys := make([]*BLSKey, n)
	for i := range keys {
		keys[i] = NewBLSKey(uint64(i + 1))
	}
	return keys
}

// PubKeyBytes returns the compressed public key.
func (k *BLSKey) PubKeyBytes() []byte {
	bz := k.PubKey.Bytes()
	return bz[:]
}

// Sign signs message under the domain separation tag dst.
func (k *BLSKey) Sign(message, dst []byte) bls12381.G2Affine {
	hashed, err := bls12381.HashToG2(message, dst)
	if err != nil {
		panic(err)
	}

	var signature bls12381.G2Affine
	signature.ScalarMultiplication(&hashed, k.secret)
	return signature
}

// AggregateSign returns the compressed aggregate of the signatures of keys over message.
func AggregateSign(keys []*BLSKey, message, dst []byte) []byte {
	var acc bls12381.G2Jac
	for _, key := range keys {
		signature := key.Sign(message, dst)
		var jac bls12381.G2Jac
		jac.FromAffine(&signature)
		acc.AddAssign(&jac)
	}

	var aggregate bls12381.G2Affine
	aggregate.FromJacobian(&acc)
	bz := aggregate.Bytes()
	return bz[:]
}

// BLSValidator returns the quorum validator of key with the provided voting power.
func BLSValidator(key *BLSKey, power uint64) quorum.Validator {
	pubKey := key.PubKeyBytes()
	return quorum.Validator{
		Address:     pubKey[:20],
		KeyType:     quorum.KeyTypeBLS12381,
		PubKey:      pubKey,
		VotingPower: power,
	}
}
