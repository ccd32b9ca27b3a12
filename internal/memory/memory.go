package memory

import "github.com/aslilac/lavender/util/dbg"

// Memory is the GBA's flat address space: region dispatch over BIOS, EWRAM,
// IWRAM, I/O, palette, VRAM, OAM, the three ROM wait-state mirrors, and SAVE.
// Grounded on LJS360d-RoBA/internal/memory/memory.go's dispatch shape,
// generalized to the full region table and to non-panicking out-of-range
// behavior (the teacher panics on OOB; SPEC_FULL.md §4.2 requires silent
// 0-on-read / drop-on-write).
type Memory struct {
	bios    *bios
	ewram   *ram
	iwram   *ram
	io      *ram
	palette *ram
	vram    *ram
	oam     *ram
	cart    *cartridge
}

// New creates memory with every region zero-initialized, BIOS populated from
// the constant placeholder image, and ROM sized to a 1-byte empty image until
// LoadROM replaces it.
func New() *Memory {
	return &Memory{
		bios:    newBIOS(),
		ewram:   newRAM(EWRAMSize),
		iwram:   newRAM(IWRAMSize),
		io:      newRAM(IOSize),
		palette: newRAM(PaletteSize),
		vram:    newRAM(VRAMSize),
		oam:     newRAM(OAMSize),
		cart:    newCartridge(),
	}
}

// LoadROM replaces the ROM image. PC is left untouched; the CPU façade decides
// whether and when to reset.
func (m *Memory) LoadROM(data []byte) error {
	return m.cart.loadROM(data)
}

// ReadByte performs a region-dispatched 8-bit read. Addresses outside every
// mapped region read as 0.
func (m *Memory) ReadByte(addr uint32) byte {
	reg, off := classify(addr)
	switch reg {
	case regionBIOS:
		return m.bios.readByte(off)
	case regionEWRAM:
		return m.ewram.readByte(off)
	case regionIWRAM:
		return m.iwram.readByte(off)
	case regionIO:
		return m.io.readByte(off)
	case regionPalette:
		return m.palette.readByte(off)
	case regionVRAM:
		return m.vram.readByte(off)
	case regionOAM:
		return m.oam.readByte(off)
	case regionROM:
		return m.cart.readROMByte(off)
	case regionSave:
		return m.cart.readSaveByte(off)
	default:
		return 0
	}
}

// WriteByte performs a region-dispatched 8-bit write. Writes outside every
// mapped region, and all writes to BIOS, are silently dropped.
func (m *Memory) WriteByte(addr uint32, value byte) {
	reg, off := classify(addr)
	switch reg {
	case regionBIOS:
		dbg.Printf("memory: dropped write 0x%02X to read-only BIOS at 0x%08X", value, addr)
	case regionEWRAM:
		m.ewram.writeByte(off, value)
	case regionIWRAM:
		m.iwram.writeByte(off, value)
	case regionIO:
		m.io.writeByte(off, value)
	case regionPalette:
		m.palette.writeByte(off, value)
	case regionVRAM:
		m.vram.writeByte(off, value)
	case regionOAM:
		m.oam.writeByte(off, value)
	case regionROM:
		m.cart.writeROMByte(off, value)
	case regionSave:
		m.cart.writeSaveByte(off, value)
	default:
		dbg.Printf("memory: dropped write 0x%02X to unmapped address 0x%08X", value, addr)
	}
}

// ReadHalf reads a little-endian 16-bit value. Misaligned addresses snap
// their low bit to zero (SPEC_FULL.md §9 "Misaligned access policy").
func (m *Memory) ReadHalf(addr uint32) uint16 {
	addr &^= 1
	lo := uint16(m.ReadByte(addr))
	hi := uint16(m.ReadByte(addr + 1))
	return lo | hi<<8
}

// WriteHalf writes a little-endian 16-bit value, snapping the address to an
// even boundary.
func (m *Memory) WriteHalf(addr uint32, value uint16) {
	addr &^= 1
	m.WriteByte(addr, byte(value))
	m.WriteByte(addr+1, byte(value>>8))
}

// ReadWord reads a little-endian 32-bit value at its aligned address
// (addr &^ 3). Rotate-on-load for a misaligned request is an ARM-level
// concern applied by the LDR handler, not by Memory itself.
func (m *Memory) ReadWord(addr uint32) uint32 {
	aligned := addr &^ 3
	b0 := uint32(m.ReadByte(aligned))
	b1 := uint32(m.ReadByte(aligned + 1))
	b2 := uint32(m.ReadByte(aligned + 2))
	b3 := uint32(m.ReadByte(aligned + 3))
	return b0 | b1<<8 | b2<<16 | b3<<24
}

// WriteWord writes a little-endian 32-bit value, snapping to a 4-byte
// boundary.
func (m *Memory) WriteWord(addr uint32, value uint32) {
	aligned := addr &^ 3
	m.WriteByte(aligned, byte(value))
	m.WriteByte(aligned+1, byte(value>>8))
	m.WriteByte(aligned+2, byte(value>>16))
	m.WriteByte(aligned+3, byte(value>>24))
}

// Region-pointer accessors: a borrow of the live backing slice, valid until
// the next mutating call, per SPEC_FULL.md §5.
func (m *Memory) BIOS() []byte    { return m.bios.bytes() }
func (m *Memory) EWRAM() []byte   { return m.ewram.bytes() }
func (m *Memory) IWRAM() []byte   { return m.iwram.bytes() }
func (m *Memory) IO() []byte      { return m.io.bytes() }
func (m *Memory) Palette() []byte { return m.palette.bytes() }
func (m *Memory) VRAM() []byte    { return m.vram.bytes() }
func (m *Memory) OAM() []byte     { return m.oam.bytes() }
func (m *Memory) ROM() []byte     { return m.cart.rom }
func (m *Memory) SaveRAM() []byte { return m.cart.save }
