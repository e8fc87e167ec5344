package ethereum

import (
	errorsmod "cosmossdk.io/errors"
)

// Fork is a beacon chain fork activated at Epoch.
type Fork struct {
	Version [4]byte
	Epoch   uint64
}

// ForkParameters lists the forks of the beacon chain in activation order.
type ForkParameters struct {
	GenesisForkVersion [4]byte
	Forks              []Fork
}

// Validate checks that forks are activated at strictly increasing epochs.
func (fp ForkParameters) Validate() error {
	for i := 1; i < len(fp.Forks); i++ {
		if fp.Forks[i].Epoch <= fp.Forks[i-1].Epoch {
			return errorsmod.Wrapf(ErrInvalidForkParameters, "fork %d activates at epoch %d, not after fork %d at epoch %d",
				i, fp.Forks[i].Epoch, i-1, fp.Forks[i-1].Epoch)
		}
	}

	return nil
}

// ForkVersion returns the version of the fork active at epoch.
func (fp ForkParameters) ForkVersion(epoch uint64) [4]byte {
	version := fp.GenesisForkVersion
	for _, fork := range fp.Forks {
		if epoch < fork.Epoch {
			break
		}
		version = fork.Version
	}

	return version
}
