package cometbls

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

const (
	// NumPublicInputs is the number of public inputs of the validator set transition circuit.
	NumPublicInputs = 3

	// ZKProofSize is the size of a proof: compressed A (G1), B (G2) and C (G1).
	ZKProofSize = bn254.SizeOfG1AffineCompressed*2 + bn254.SizeOfG2AffineCompressed
)

// VerifyingKey is the Groth16 verifying key of the validator set transition circuit over
// BN254. Points are stored compressed.
type VerifyingKey struct {
	Alpha []byte
	Beta  []byte
	Gamma []byte
	Delta []byte
	// IC holds one point per public input, preceded by the constant term.
	IC [][]byte
}

type verifyingKey struct {
	alpha              bn254.G1Affine
	beta, gamma, delta bn254.G2Affine
	ic                 []bn254.G1Affine
}

type zkProof struct {
	a, c bn254.G1Affine
	b    bn254.G2Affine
}

// Validate decodes every point of the key.
func (vk VerifyingKey) Validate() error {
	_, err := vk.decode()
	return err
}

func (vk VerifyingKey) decode() (verifyingKey, error) {
	var decoded verifyingKey

	if err := decodeG1(&decoded.alpha, vk.Alpha); err != nil {
		return verifyingKey{}, errorsmod.Wrapf(ErrInvalidVerifyingKey, "alpha: %s", err)
	}
	if err := decodeG2(&decoded.beta, vk.Beta); err != nil {
		return verifyingKey{}, errorsmod.Wrapf(ErrInvalidVerifyingKey, "beta: %s", err)
	}
	if err := decodeG2(&decoded.gamma, vk.Gamma); err != nil {
		return verifyingKey{}, errorsmod.Wrapf(ErrInvalidVerifyingKey, "gamma: %s", err)
	}
	if err := decodeG2(&decoded.delta, vk.Delta); err != nil {
		return verifyingKey{}, errorsmod.Wrapf(ErrInvalidVerifyingKey, "delta: %s", err)
	}

	if len(vk.IC) != NumPublicInputs+1 {
		return verifyingKey{}, errorsmod.Wrapf(ErrInvalidVerifyingKey, "expected %d IC points, got %d", NumPublicInputs+1, len(vk.IC))
	}
	decoded.ic = make([]bn254.G1Affine, len(vk.IC))
	for i, bz := range vk.IC {
		if err := decodeG1(&decoded.ic[i], bz); err != nil {
			return verifyingKey{}, errorsmod.Wrapf(ErrInvalidVerifyingKey, "IC[%d]: %s", i, err)
		}
	}

	return decoded, nil
}

func decodeG1(p *bn254.G1Affine, bz []byte) error {
	if len(bz) != bn254.SizeOfG1AffineCompressed {
		return errorsmod.Wrapf(ErrInvalidVerifyingKey, "G1 point must be %d bytes, got %d", bn254.SizeOfG1AffineCompressed, len(bz))
	}
	_, err := p.SetBytes(bz)
	return err
}

func decodeG2(p *bn254.G2Affine, bz []byte) error {
	if len(bz) != bn254.SizeOfG2AffineCompressed {
		return errorsmod.Wrapf(ErrInvalidVerifyingKey, "G2 point must be %d bytes, got %d", bn254.SizeOfG2AffineCompressed, len(bz))
	}
	_, err := p.SetBytes(bz)
	return err
}

func decodeProof(bz []byte) (zkProof, error) {
	if len(bz) != ZKProofSize {
		return zkProof{}, errorsmod.Wrapf(ErrInvalidZKP, "proof must be %d bytes, got %d", ZKProofSize, len(bz))
	}

	var proof zkProof
	offset := 0
	if _, err := proof.a.SetBytes(bz[offset : offset+bn254.SizeOfG1AffineCompressed]); err != nil {
		return zkProof{}, errorsmod.Wrapf(ErrInvalidZKP, "A: %s", err)
	}
	offset += bn254.SizeOfG1AffineCompressed
	if _, err := proof.b.SetBytes(bz[offset : offset+bn254.SizeOfG2AffineCompressed]); err != nil {
		return zkProof{}, errorsmod.Wrapf(ErrInvalidZKP, "B: %s", err)
	}
	offset += bn254.SizeOfG2AffineCompressed
	if _, err := proof.c.SetBytes(bz[offset:]); err != nil {
		return zkProof{}, errorsmod.Wrapf(ErrInvalidZKP, "C: %s", err)
	}

	return proof, nil
}

// ZKPublicInputs maps the hashes bound by the circuit into the scalar field. Values are
// reduced modulo the field order.
func ZKPublicInputs(trustedValidatorsHash, untrustedValidatorsHash, headerHash []byte) []fr.Element {
	inputs := make([]fr.Element, NumPublicInputs)
	inputs[0].SetBytes(trustedValidatorsHash)
	inputs[1].SetBytes(untrustedValidatorsHash)
	inputs[2].SetBytes(headerHash)
	return inputs
}

// verifyZKP checks e(A, B) == e(alpha, beta) · e(L, gamma) · e(C, delta) where
// L = IC[0] + Σ inputs[i]·IC[i+1].
func verifyZKP(vk VerifyingKey, proofBz []byte, inputs []fr.Element) error {
	key, err := vk.decode()
	if err != nil {
		return err
	}
	if len(inputs) != len(key.ic)-1 {
		return errorsmod.Wrapf(ErrInvalidZKP, "expected %d public inputs, got %d", len(key.ic)-1, len(inputs))
	}

	proof, err := decodeProof(proofBz)
	if err != nil {
		return err
	}

	var acc bn254.G1Jac
	acc.FromAffine(&key.ic[0])
	for i := range inputs {
		var term bn254.G1Affine
		term.ScalarMultiplication(&key.ic[i+1], inputs[i].BigInt(new(big.Int)))
		acc.AddMixed(&term)
	}
	var l bn254.G1Affine
	l.FromJacobian(&acc)

	var negA bn254.G1Affine
	negA.Neg(&proof.a)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{negA, key.alpha, l, proof.c},
		[]bn254.G2Affine{proof.b, key.beta, key.gamma, key.delta},
	)
	if err != nil {
		return errorsmod.Wrapf(ErrInvalidZKP, "pairing check: %s", err)
	}
	if !ok {
		return errorsmod.Wrap(ErrInvalidZKP, "pairing check failed")
	}

	return nil
}
