package ibctesting

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	cometbls "github.com/cosmos/ibc-lightclients/modules/light-clients/08-cometbls"
)

// Groth16Prover fabricates Groth16 proofs over BN254 for arbitrary public inputs. It knows the
// discrete logarithms of every verifying key point, which lets it satisfy the pairing equation
// without a circuit.
type Groth16Prover struct {
	alpha, beta, gamma, delta fr.Element
	ic                        []fr.Element

	VerifyingKey cometbls.VerifyingKey
}

func scalarFromSeed(seed uint64, label string) fr.Element {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seed)
	digest := sha256.Sum256(append(buf[:], label...))

	var s fr.Element
	s.SetBytes(digest[:])
	return s
}

func g1Bytes(s fr.Element) []byte {
	_, _, g1, _ := bn254.Generators()
	var p bn254.G1Affine
	p.ScalarMultiplication(&g1, s.BigInt(new(big.Int)))
	bz := p.Bytes()
	return bz[:]
}

func g2Bytes(s fr.Element) []byte {
	_, _, _, g2 := bn254.Generators()
	var p bn254.G2Affine
	p.ScalarMultiplication(&g2, s.BigInt(new(big.Int)))
	bz := p.Bytes()
	return bz[:]
}

// NewGroth16Prover derives a verifying key for cometbls.NumPublicInputs inputs from seed.
func NewGroth16Prover(seed uint64) *Groth16Prover {
	prover := &Groth16Prover{
		alpha: scalarFromSeed(seed, "alpha"),
		beta:  scalarFromSeed(seed, "beta"),
		gamma: scalarFromSeed(seed, "gamma"),
		delta: scalarFromSeed(seed, "delta"),
		ic:    make([]fr.Element, cometbls.NumPublicInputs+1),
	}

	ic := make([][]byte, len(prover.ic))
	for i := range prover.ic {
		prover.ic[i] = scalarFromSeed(seed, "ic"+string(rune('0'+i)))
		ic[i] = g1Bytes(prover.ic[i])
	}

	prover.VerifyingKey = cometbls.VerifyingKey{
		Alpha: g1Bytes(prover.alpha),
		Beta:  g2Bytes(prover.beta),
		Gamma: g2Bytes(prover.gamma),
		Delta: g2Bytes(prover.delta),
		IC:    ic,
	}

	return prover
}

// Prove returns a compressed proof A‖B‖C accepted by the verifying key for inputs. With
// A = a·G1 and B = b·G2 the proof sets C = c·G1 where c = (ab - αβ - lγ)/δ and l is the
// discrete logarithm of IC[0] + Σ inputs[i]·IC[i+1].
func (p *Groth16Prover) Prove(inputs []fr.Element) []byte {
	if len(inputs) != len(p.ic)-1 {
		panic("unexpected number of public inputs")
	}

	var l fr.Element
	l.Set(&p.ic[0])
	for i := range inputs {
		var term fr.Element
		term.Mul(&inputs[i], &p.ic[i+1])
		l.Add(&l, &term)
	}

	var seed uint64
	for i := range inputs {
		bz := inputs[i].Bytes()
		seed ^= binary.BigEndian.Uint64(bz[len(bz)-8:])
	}
	a := scalarFromSeed(seed, "a")
	b := scalarFromSeed(seed, "b")

	var c, tmp, deltaInv fr.Element
	c.Mul(&a, &b)
	tmp.Mul(&p.alpha, &p.beta)
	c.Sub(&c, &tmp)
	tmp.Mul(&l, &p.gamma)
	c.Sub(&c, &tmp)
	deltaInv.Inverse(&p.delta)
	c.Mul(&c, &deltaInv)

	proof := make([]byte, 0, cometbls.ZKProofSize)
	proof = append(proof, g1Bytes(a)...)
	proof = append(proof, g2Bytes(b)...)
	proof = append(proof, g1Bytes(c)...)
	return proof
}
