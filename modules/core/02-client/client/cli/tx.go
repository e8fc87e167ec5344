package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// newCreateClientCmd defines the command to create a new light client.
func newCreateClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-client [client-type] [client-state] [consensus-state]",
		Short: "create a new light client",
		Long: `create a new light client of the given type from its encoded client state and initial consensus state.
The states are passed as hex or as paths to files holding the encoded bytes.`,
		Example: "lightclientd create-client 12-ethereum 0xf9... 0xf8...",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			clientStateBz, err := readBytes(args[1])
			if err != nil {
				return fmt.Errorf("invalid client state: %w", err)
			}

			consensusStateBz, err := readBytes(args[2])
			if err != nil {
				return fmt.Errorf("invalid consensus state: %w", err)
			}

			clientID, err := clientCtx.Keeper.CreateClient(clientCtx.Now, args[0], clientStateBz, consensusStateBz)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), clientID)
			return nil
		},
	}

	return cmd
}

// newUpdateClientCmd defines the command to update a light client.
func newUpdateClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update-client [client-id] [client-msg]",
		Short:   "update existing client with a client message",
		Long:    "update existing client with an encoded client message, for example a header or misbehaviour",
		Example: "lightclientd update-client 07-tendermint-0 0xf9...",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			clientMsg, err := readClientMessage(clientCtx, args[1])
			if err != nil {
				return err
			}

			heights, err := clientCtx.Keeper.UpdateClient(clientCtx.Now, args[0], clientMsg)
			if err != nil {
				return err
			}

			if len(heights) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "client %s frozen due to misbehaviour\n", args[0])
				return nil
			}
			for _, height := range heights {
				fmt.Fprintln(cmd.OutOrStdout(), height.String())
			}

			return nil
		},
	}

	return cmd
}

// newSubmitMisbehaviourCmd defines the command to submit misbehaviour evidence.
func newSubmitMisbehaviourCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submit-misbehaviour [client-id] [misbehaviour]",
		Short:   "submit a client misbehaviour",
		Long:    "submit encoded misbehaviour evidence to freeze the client",
		Example: "lightclientd submit-misbehaviour 12-ethereum-0 0xf9...",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}

			misbehaviour, err := readClientMessage(clientCtx, args[1])
			if err != nil {
				return err
			}

			if err := clientCtx.Keeper.SubmitMisbehaviour(clientCtx.Now, args[0], misbehaviour); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "client %s frozen due to misbehaviour\n", args[0])
			return nil
		},
	}

	return cmd
}

func readClientMessage(clientCtx ClientContext, arg string) (exported.ClientMessage, error) {
	bz, err := readBytes(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid client message: %w", err)
	}

	var clientMsg exported.ClientMessage
	if err := clientCtx.Keeper.Codec().UnmarshalInterface(bz, &clientMsg); err != nil {
		return nil, fmt.Errorf("error unmarshalling client message: %w", err)
	}

	return clientMsg, nil
}
