package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	attestations "github.com/cosmos/ibc-lightclients/modules/light-clients/10-attestations"
)

// newSubmitAttestationCmd returns the command recording a signed attestation for an
// attestations client.
func newSubmitAttestationCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "submit-attestation [client-id] [attestation] [signature...]",
		Short: "submit an attestation signed by the attestors of a client",
		Long: `submit the ABI encoded attestation together with the 65 byte secp256k1 signatures of the attestors
over its digest. The attestation is passed as hex or as a path to a file holding the encoded bytes.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := decodeHexOrFile(args[1])
			if err != nil {
				return fmt.Errorf("invalid attestation: %w", err)
			}

			chainID, attestation, err := attestations.ABIDecodeAttestation(bz)
			if err != nil {
				return err
			}

			counterpartyChainID, err := app.keeper.ClientKeeper.GetCounterpartyChainID(args[0])
			if err != nil {
				return err
			}
			if chainID != counterpartyChainID {
				return fmt.Errorf("attestation is bound to chain %s, client %s tracks %s", chainID, args[0], counterpartyChainID)
			}

			signatures := make([][]byte, 0, len(args)-2)
			for _, arg := range args[2:] {
				sig, err := hex.DecodeString(strings.TrimPrefix(arg, "0x"))
				if err != nil {
					return fmt.Errorf("invalid signature %s: %w", arg, err)
				}
				signatures = append(signatures, sig)
			}

			if err := app.keeper.SubmitAttestation(args[0], *attestation, signatures); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "attestation recorded at height %s\n", attestation.Height)
			return nil
		},
	}
}

func decodeHexOrFile(arg string) ([]byte, error) {
	if bz, err := hex.DecodeString(strings.TrimPrefix(arg, "0x")); err == nil {
		return bz, nil
	}

	return os.ReadFile(arg)
}
