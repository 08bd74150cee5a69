package main

import (
	"fmt"
	"os"

	"github.com/aretw0/framesync/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framesync",
	Short: "Keeps a Samsung Frame TV in art mode while its Apple TV is off",
	Long: `framesync watches an Apple TV through atvremote and a Samsung Frame TV over its
network API. When the Apple TV turns off, the Frame is switched back into art mode.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().String("host", "", "Frame TV address (overrides display.host)")
	rootCmd.PersistentFlags().String("companion-id", "", "Apple TV identifier (overrides companion.id)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of every probe and command")
}

// runOptions collects the persistent flags.
func runOptions(cmd *cobra.Command) cli.RunOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	host, _ := flags.GetString("host")
	companionID, _ := flags.GetString("companion-id")
	logLevel, _ := flags.GetString("log-level")
	logFormat, _ := flags.GetString("log-format")
	debug, _ := flags.GetBool("debug")
	return cli.RunOptions{
		ConfigPath:  configPath,
		Host:        host,
		CompanionID: companionID,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		Debug:       debug,
	}
}
