package cmd

import (
	"os"

	"github.com/openxc7/fasmout/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fasmout",
	Short: "FASM emission backend for Xilinx 7-series designs",
	Long: `fasmout converts a placed-and-routed Xilinx 7-series design into a textual
FPGA assembly (FASM) stream that downstream tools assemble into a bitstream.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
