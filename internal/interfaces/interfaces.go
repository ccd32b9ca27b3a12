// Package interfaces holds the narrow contracts CPU and Memory are wired
// together through, so each can be exercised or substituted independently in
// tests. Consolidated from LJS360d-RoBA/internal/interfaces, which shipped
// two conflicting definitions of the register interface in the same package
// (cpu_registers.go vs registers.go — the latter had a typo'd ISFIQDisabled
// and a wrong-signature SetFIQDisabled() bool) and a MemoryDevice/BusInterface
// split that no longer matches this module's single Memory component.
package interfaces

// Bus is the address space a CPU executes against.
type Bus interface {
	ReadByte(addr uint32) byte
	WriteByte(addr uint32, value byte)
	ReadHalf(addr uint32) uint16
	WriteHalf(addr uint32, value uint16)
	ReadWord(addr uint32) uint32
	WriteWord(addr uint32, value uint32)
}
