package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lavender",
		Short: "lavender — an ARM7TDMI/ARMv4T CPU core for the Game Boy Advance",
	}
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newRegsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
