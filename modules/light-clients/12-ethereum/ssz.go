package ethereum

import (
	"encoding/binary"

	sha256 "github.com/minio/sha256-simd"

	"github.com/ethereum/go-ethereum/beacon/merkle"
	"github.com/ethereum/go-ethereum/common"
)

// maxMerkleDepth bounds the depth of the trees merkleized by the client.
const maxMerkleDepth = 16

var zeroHashes [maxMerkleDepth + 1]merkle.Value

func init() {
	for i := 1; i <= maxMerkleDepth; i++ {
		zeroHashes[i] = hashPair(zeroHashes[i-1], zeroHashes[i-1])
	}
}

// zeroHash returns the root of an all zero tree of the given depth.
func zeroHash(depth int) merkle.Value {
	if depth <= maxMerkleDepth {
		return zeroHashes[depth]
	}

	h := zeroHashes[maxMerkleDepth]
	for d := maxMerkleDepth; d < depth; d++ {
		h = hashPair(h, h)
	}
	return h
}

func hashPair(left, right merkle.Value) merkle.Value {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return sha256.Sum256(buf[:])
}

// merkleize returns the SSZ root of chunks padded with zero chunks up to limit leaves.
// limit must be at least len(chunks).
func merkleize(chunks []merkle.Value, limit int) merkle.Value {
	depth := 0
	for (1 << depth) < limit {
		depth++
	}

	layer := append([]merkle.Value(nil), chunks...)
	for d := 0; d < depth; d++ {
		if len(layer)%2 == 1 {
			layer = append(layer, zeroHash(d))
		}
		next := make([]merkle.Value, len(layer)/2)
		for i := range next {
			next[i] = hashPair(layer[2*i], layer[2*i+1])
		}
		layer = next
	}

	if len(layer) == 0 {
		return zeroHash(depth)
	}
	return layer[0]
}

func mixInLength(root merkle.Value, length uint64) merkle.Value {
	return hashPair(root, uint64Chunk(length))
}

func uint64Chunk(v uint64) merkle.Value {
	var c merkle.Value
	binary.LittleEndian.PutUint64(c[:8], v)
	return c
}

// packBytes splits bz into right padded chunks.
func packBytes(bz []byte) []merkle.Value {
	chunks := make([]merkle.Value, (len(bz)+31)/32)
	for i := range chunks {
		copy(chunks[i][:], bz[i*32:])
	}
	return chunks
}

func bytesRoot(bz []byte) merkle.Value {
	chunks := packBytes(bz)
	return merkleize(chunks, len(chunks))
}

// HashTreeRoot returns the SSZ root of the execution payload header.
func (h ExecutionPayloadHeader) HashTreeRoot() common.Hash {
	var baseFee merkle.Value
	if h.BaseFeePerGas != nil {
		be := h.BaseFeePerGas.Bytes32()
		for i := range be {
			baseFee[i] = be[len(be)-1-i]
		}
	}

	var feeRecipient merkle.Value
	copy(feeRecipient[:], h.FeeRecipient[:])

	fields := []merkle.Value{
		merkle.Value(h.ParentHash),
		feeRecipient,
		merkle.Value(h.StateRoot),
		merkle.Value(h.ReceiptsRoot),
		bytesRoot(h.LogsBloom[:]),
		merkle.Value(h.PrevRandao),
		uint64Chunk(h.BlockNumber),
		uint64Chunk(h.GasLimit),
		uint64Chunk(h.GasUsed),
		uint64Chunk(h.Timestamp),
		mixInLength(merkleize(packBytes(h.ExtraData), 1), uint64(len(h.ExtraData))),
		baseFee,
		merkle.Value(h.BlockHash),
		merkle.Value(h.TransactionsRoot),
		merkle.Value(h.WithdrawalsRoot),
		uint64Chunk(h.BlobGasUsed),
		uint64Chunk(h.ExcessBlobGas),
	}

	return common.Hash(merkleize(fields, len(fields)))
}

// HashTreeRoot returns the SSZ root of the sync committee.
func (sc SyncCommittee) HashTreeRoot() common.Hash {
	pubKeys := make([]merkle.Value, len(sc.PubKeys))
	for i, pubKey := range sc.PubKeys {
		pubKeys[i] = bytesRoot(pubKey)
	}

	return common.Hash(hashPair(merkleize(pubKeys, len(pubKeys)), bytesRoot(sc.AggregatePubKey)))
}

// ComputeDomain returns the signature domain of domainType under the fork version.
func ComputeDomain(domainType [4]byte, forkVersion [4]byte, genesisValidatorsRoot common.Hash) merkle.Value {
	var version merkle.Value
	copy(version[:], forkVersion[:])
	forkDataRoot := hashPair(version, merkle.Value(genesisValidatorsRoot))

	var domain merkle.Value
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain
}

// ComputeSigningRoot returns the root of the signing data of objectRoot under domain.
func ComputeSigningRoot(objectRoot common.Hash, domain merkle.Value) common.Hash {
	return common.Hash(hashPair(merkle.Value(objectRoot), domain))
}
