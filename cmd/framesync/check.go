package main

import (
	"os"
	"time"

	"github.com/aretw0/framesync/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the Apple TV and the Frame once and print what they report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		jsonOut, _ := cmd.Flags().GetBool("json")
		return cli.Check(cli.CheckOptions{
			RunOptions: runOptions(cmd),
			Timeout:    timeout,
			JSON:       jsonOut,
		}, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Duration("timeout", 30*time.Second, "Give up after this long")
	checkCmd.Flags().Bool("json", false, "Print the result as JSON")
}
