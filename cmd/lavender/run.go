package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aslilac/lavender/internal/emulator"
)

// registerSnapshot is the JSON shape written by --dump-regs and printed by
// the regs subcommand.
type registerSnapshot struct {
	Registers [16]uint32 `json:"registers"`
	CPSR      uint32     `json:"cpsr"`
}

func snapshotRegisters(e *emulator.Emulator) registerSnapshot {
	return registerSnapshot{Registers: e.ReadRegisters(), CPSR: e.ReadCPSR()}
}

func newRunCmd() *cobra.Command {
	var romPath string
	var frames int
	var dumpRegsPath string
	var savePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a ROM and run it for a fixed number of frames",
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

			for i := 0; i < frames; i++ {
				if err := e.StepFrame(); err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
			}

			if dumpRegsPath != "" {
				if err := dumpRegisters(e, dumpRegsPath); err != nil {
					return fmt.Errorf("dumping registers: %w", err)
				}
			}

			if savePath != "" {
				if err := os.WriteFile(savePath, e.SaveRAM(), 0o644); err != nil {
					return fmt.Errorf("writing save: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&romPath, "rom", "", "Path to the ROM image")
	cmd.Flags().IntVar(&frames, "frames", 1, "Number of frames to run")
	cmd.Flags().StringVar(&dumpRegsPath, "dump-regs", "", "Write a JSON r0..r15/CPSR snapshot to this path")
	cmd.Flags().StringVar(&savePath, "save", "", "Write cartridge SAVE RAM to this path")

	return cmd
}

func dumpRegisters(e *emulator.Emulator, path string) error {
	data, err := json.MarshalIndent(snapshotRegisters(e), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
