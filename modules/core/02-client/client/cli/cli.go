package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmos/ibc-lightclients/modules/core/02-client/keeper"
)

type clientContextKey struct{}

// ClientContext is the state commands operate on: the client keeper and the time handed
// to it as the current time.
type ClientContext struct {
	Keeper *keeper.Keeper
	Now    time.Time
}

// SetClientContext stores clientCtx in the context of cmd.
func SetClientContext(cmd *cobra.Command, clientCtx ClientContext) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, clientContextKey{}, clientCtx))
}

// GetClientContext returns the ClientContext set on cmd.
func GetClientContext(cmd *cobra.Command) (ClientContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if clientCtx, ok := ctx.Value(clientContextKey{}).(ClientContext); ok && clientCtx.Keeper != nil {
			return clientCtx, nil
		}
	}

	return ClientContext{}, errors.New("client context has not been set")
}

// GetTxCommands returns the commands changing client state.
func GetTxCommands() []*cobra.Command {
	return []*cobra.Command{
		newCreateClientCmd(),
		newUpdateClientCmd(),
		newSubmitMisbehaviourCmd(),
	}
}

// GetQueryCommands returns the commands reading client state.
func GetQueryCommands() []*cobra.Command {
	return []*cobra.Command{
		newStatusCmd(),
		newClientStateCmd(),
		newConsensusHeightsCmd(),
		newVerifyMembershipCmd(),
		newVerifyNonMembershipCmd(),
	}
}

// readBytes decodes arg as hex, with or without 0x prefix. Arguments which are not hex
// are read as a path to a file holding the raw bytes.
func readBytes(arg string) ([]byte, error) {
	if bz, err := decodeHex(arg); err == nil {
		return bz, nil
	}

	bz, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("neither hex input nor path to a file were provided: %w", err)
	}

	return bz, nil
}

func decodeHex(arg string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(arg, "0x"))
}
