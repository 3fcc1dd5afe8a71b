// Command mseqsim runs the motion sequencer headless and serves its state
// over HTTP.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/milk9111/motionseq/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "mseqsim",
	Short:         "Headless motion sequencer simulation",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(runCmd, inspectCmd)
}

func main() {
	logging.Configure(logging.Config{})
	if err := rootCmd.Execute(); err != nil {
		log := logging.WithComponent("cli")
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
