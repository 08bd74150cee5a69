package main

import (
	"os"
	"time"

	"github.com/aretw0/framesync/internal/cli"
	"github.com/spf13/cobra"
)

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Toggle the Frame's power once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.TogglePower(sendOptions(cmd), os.Stderr)
	},
}

var artCmd = &cobra.Command{
	Use:   "art",
	Short: "Ask the Frame to switch art mode on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.EnableArtMode(sendOptions(cmd), os.Stderr)
	},
}

func sendOptions(cmd *cobra.Command) cli.SendOptions {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return cli.SendOptions{RunOptions: runOptions(cmd), Timeout: timeout}
}

func init() {
	for _, c := range []*cobra.Command{powerCmd, artCmd} {
		c.Flags().Duration("timeout", 10*time.Second, "Give up after this long")
		rootCmd.AddCommand(c)
	}
}
