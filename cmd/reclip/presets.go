package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmcq/reclip/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List formatting and enhancement presets",
	Args:  cobra.NoArgs,
	Run:   runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) {
	if jsonOutput {
		printJSON(map[string]any{
			"formats":      preset.Formats,
			"enhancements": preset.Enhancements,
		})
		return
	}

	fmt.Println("Formatting presets:")
	for _, name := range preset.FormatNames() {
		f := preset.Formats[name]
		fmt.Printf("  %-16s vertical=%-5v mirror=%-5v speed=%g\n", name, f.Vertical, f.Mirror, f.Speed)
	}
	fmt.Println("\nEnhancement presets:")
	for _, name := range preset.EnhancementNames() {
		e := preset.Enhancements[name]
		fmt.Printf("  %-16s contrast=%g brightness=%g sharpness=%g\n", name, e.Contrast, e.Brightness, e.Sharpness)
	}
}
