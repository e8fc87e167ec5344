package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// newStatusCmd defines the command to query the status of a client.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status [client-id]",
		Short:   "query client status",
		Long:    "query the status of a client, the status of the clients it references included",
		Example: "lightclientd status 15-rollup-1 --now 2024-06-01T12:00:00Z",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), clientCtx.Keeper.GetClientStatus(clientCtx.Now, args[0]).String())
			return nil
		},
	}
}

// newClientStateCmd defines the command to query the client state of a client.
func newClientStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "client-state [client-id]",
		Short: "query a client state",
		Long:  "query the stored client state of a client, printed as hex encoded bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			clientState, found := clientCtx.Keeper.GetClientState(args[0])
			if !found {
				return fmt.Errorf("%w: %s", types.ErrClientNotFound, args[0])
			}

			bz, err := clientCtx.Keeper.Codec().MarshalInterface(clientState)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "type: %s\nlatest_height: %s\nstate: %x\n", clientState.ClientType(), clientState.GetLatestHeight(), bz)
			return nil
		},
	}
}

// newConsensusHeightsCmd defines the command to query the heights of the consensus states of a client.
func newConsensusHeightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consensus-heights [client-id]",
		Short: "query the heights of all consensus states of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			heights, err := clientCtx.Keeper.GetConsensusStateHeights(args[0])
			if err != nil {
				return err
			}

			for _, height := range heights {
				fmt.Fprintln(cmd.OutOrStdout(), height.String())
			}

			return nil
		},
	}
}

// newVerifyMembershipCmd defines the command to verify a membership proof against a client.
func newVerifyMembershipCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "verify-membership [client-id] [height] [proof] [path...] [value]",
		Short:   "verify that a value is committed under a path",
		Long:    "verify a proof that the counterparty committed value under the path built from the key path arguments, at the given consensus height",
		Example: "lightclientd verify-membership 07-tendermint-0 1-100 0x0a... ibc commitments/ports/transfer/channels/channel-0/sequences/1 0x08f7",
		Args:    cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			height, proof, path, err := parseProofArgs(args[1], args[2], args[3:len(args)-1])
			if err != nil {
				return err
			}

			value, err := decodeHex(args[len(args)-1])
			if err != nil {
				return fmt.Errorf("invalid value: %w", err)
			}

			if err := clientCtx.Keeper.VerifyMembership(clientCtx.Now, args[0], height, proof, path, value); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "membership verified")
			return nil
		},
	}
}

// newVerifyNonMembershipCmd defines the command to verify a non-membership proof against a client.
func newVerifyNonMembershipCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "verify-non-membership [client-id] [height] [proof] [path...]",
		Short:   "verify that nothing is committed under a path",
		Example: "lightclientd verify-non-membership 07-tendermint-0 1-100 0x0a... ibc receipts/ports/transfer/channels/channel-0/sequences/1",
		Args:    cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			height, proof, path, err := parseProofArgs(args[1], args[2], args[3:])
			if err != nil {
				return err
			}

			if err := clientCtx.Keeper.VerifyNonMembership(clientCtx.Now, args[0], height, proof, path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "non-membership verified")
			return nil
		},
	}
}

func parseProofArgs(heightArg, proofArg string, pathArgs []string) (exported.Height, []byte, commitmenttypes.MerklePath, error) {
	height, err := types.ParseHeight(heightArg)
	if err != nil {
		return nil, nil, commitmenttypes.MerklePath{}, err
	}

	proof, err := decodeHex(proofArg)
	if err != nil {
		return nil, nil, commitmenttypes.MerklePath{}, fmt.Errorf("invalid proof: %w", err)
	}

	keyPath := make([][]byte, len(pathArgs))
	for i, segment := range pathArgs {
		keyPath[i] = []byte(segment)
	}

	return height, proof, commitmenttypes.NewMerklePath(keyPath...), nil
}
