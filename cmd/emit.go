package cmd

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/openxc7/fasmout/config"
	"github.com/openxc7/fasmout/fasm"
	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

var emitCmd = &cobra.Command{
	Use:   "emit <design.yaml> <output.fasm>",
	Args:  cobra.ExactArgs(2),
	Short: "Emits FASM for a routed design snapshot",
	Long: `Emits FASM for a routed design snapshot.

The snapshot must contain a fully-bound design: every cell mapped to a
physical bel and every net routed over concrete pips.`,
	Run: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) {
	log.WarningsAsErrors = config.GetConfig().WarningsAsErrors

	designPath := args[0]
	outputPath := args[1]

	design, err := xc7.LoadDesign(designPath)
	if err != nil {
		log.Fatal("Failed to load design snapshot '%s': %s.\n", designPath, err)
	}
	log.Debug("Loaded design snapshot '%s': %d cells, %d nets.\n",
		designPath, design.Cells.Len(), design.Nets.Len())

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Emitting FASM..."
	s.Start()
	err = fasm.WriteFile(design, outputPath)
	s.Stop()
	if err != nil {
		log.Fatal("Failed to write FASM to '%s': %s.\n", outputPath, err)
	}

	log.Success("Wrote '%s'.\n", outputPath)
}
