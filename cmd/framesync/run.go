package main

import (
	"github.com/aretw0/framesync/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the art mode controller",
	Long: `Starts the reconciliation loop. It runs until interrupted (SIGINT or SIGTERM).
With --status-addr it also serves /healthz, /status, /events and /metrics.
With --redis-url only one controller per TV is active at a time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd)
		opts.StatusAddr, _ = cmd.Flags().GetString("status-addr")
		opts.RedisURL, _ = cmd.Flags().GetString("redis-url")
		opts.NoBanner, _ = cmd.Flags().GetBool("no-banner")
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("status-addr", "", "Serve the status endpoints on this address (e.g. :9090)")
	runCmd.Flags().String("redis-url", "", "Take a redis lease before controlling the TV")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")

	// 'run' is the default when no command is provided
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.RunE = runCmd.RunE
}
