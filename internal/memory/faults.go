package memory

import "fmt"

// AlignmentFault describes a misaligned half/word access. Memory never raises
// it, in any build: addresses are snapped to their natural alignment instead,
// and the LDR handler applies the rotate-on-load rule.
type AlignmentFault struct {
	Address uint32
	Width   int // 2 or 4
}

func (f *AlignmentFault) Error() string {
	return fmt.Sprintf("memory: misaligned %d-byte access at 0x%08X", f.Width, f.Address)
}

// HostError is returned only at the host boundary when a request cannot be
// satisfied, such as a ROM image larger than the addressable window.
type HostError struct {
	Reason string
}

func (e *HostError) Error() string {
	return "memory: " + e.Reason
}
