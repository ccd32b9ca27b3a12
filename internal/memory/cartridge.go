package memory

// cartridge backs the three ROM wait-state mirrors (one shared image) and the
// SAVE region. Grounded on LJS360d-RoBA/internal/cartridge/cartridge.go, fixing
// its SRAM size (the teacher computed roughly 32 KiB off an end-address typo
// while documenting 1 KiB; the spec wants a fixed 64 KiB) and its total lack
// of bounds checking.
type cartridge struct {
	rom  []byte
	save []byte
}

func newCartridge() *cartridge {
	return &cartridge{
		rom:  make([]byte, 1), // empty placeholder until LoadROM
		save: make([]byte, SaveSize),
	}
}

// loadROM replaces the ROM image. Per SPEC_FULL.md's resolved Open Question,
// writes to ROM are accepted (mutating the in-memory image) rather than
// rejected as on real hardware.
func (c *cartridge) loadROM(data []byte) error {
	if len(data) > ROMMaxSize {
		return &HostError{Reason: "ROM image exceeds the 32 MiB addressable window"}
	}
	if len(data) == 0 {
		return &HostError{Reason: "ROM image is empty"}
	}
	c.rom = data
	return nil
}

func (c *cartridge) readROMByte(off uint32) byte {
	if int(off) >= len(c.rom) {
		return 0
	}
	return c.rom[off]
}

func (c *cartridge) writeROMByte(off uint32, value byte) {
	if int(off) >= len(c.rom) {
		return
	}
	c.rom[off] = value
}

func (c *cartridge) readSaveByte(off uint32) byte {
	return c.save[off]
}

func (c *cartridge) writeSaveByte(off uint32, value byte) {
	c.save[off] = value
}
