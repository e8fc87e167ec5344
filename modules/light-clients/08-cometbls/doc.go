/*
Package cometbls implements the light client of CometBFT chains whose validators sign
with BLS12-381 keys.

Every committing validator signs the same canonical vote, so a commit carries a single
aggregate signature which is checked with the aggregate BLS strategy of the quorum
package. The transition from the trusted to the untrusted validator set is attested by a
Groth16 proof over BN254 whose public inputs bind both validator set hashes and the
header hash.
*/
package cometbls
