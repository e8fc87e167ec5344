/*
Package quorum implements the signature verification strategies shared by the validator
quorum light clients.

A strategy is driven in three steps for every commit: FilterCommit discards the entries
which carry no vote, ProcessSignature feeds each remaining signature together with the
validator which produced it, and Finish performs the cryptographic check. A strategy is
single use: once Finish has been called it must be discarded.
*/
package quorum
