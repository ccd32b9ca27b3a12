package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aslilac/lavender/internal/emulator"
)

func newRegsCmd() *cobra.Command {
	var romPath string
	var instructions int

	cmd := &cobra.Command{
		Use:   "regs",
		Short: "Load a ROM, step some instructions, and print the register state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if romPath == "" {
				return fmt.Errorf("--rom is required")
			}

			romData, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("reading ROM: %w", err)
			}

			e := emulator.New()
			if err := e.LoadROM(romData); err != nil {
				return fmt.Errorf("loading ROM: %w", err)
			}

			for i := 0; i < instructions; i++ {
				if _, err := e.StepInstruction(); err != nil {
					return fmt.Errorf("instruction %d: %w", i, err)
				}
			}

			data, err := json.MarshalIndent(snapshotRegisters(e), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&romPath, "rom", "", "Path to the ROM image")
	cmd.Flags().IntVar(&instructions, "instructions", 0, "Number of instructions to step before printing")

	return cmd
}
