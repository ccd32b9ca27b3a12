package cpu

import "fmt"

// ModeFault signals access to SPSR from USR/SYS. (An illegal mode value
// reaching CPSR does not raise it: SetMode and SetCPSR reset the register
// file instead.) It is surfaced to the host rather than translated into an
// ARM exception, since it indicates emulator misuse rather than guest
// behavior (SPEC_FULL.md §7).
type ModeFault struct {
	Mode uint8
	Op   string
}

func (f *ModeFault) Error() string {
	return fmt.Sprintf("cpu: %s is invalid in mode 0x%02X", f.Op, f.Mode)
}

// UndefinedInstruction describes a bit pattern with no decode mapping or an
// unmodeled coprocessor access. The NV condition is not undefined here:
// CheckCondition treats it as always-true. Unlike
// ModeFault, this is handled entirely inside the CPU: it drives the guest
// into UND mode rather than bubbling out to the host.
type UndefinedInstruction struct {
	Instruction uint32
	PC          uint32
}

func (f *UndefinedInstruction) Error() string {
	return fmt.Sprintf("cpu: undefined instruction 0x%08X at PC=0x%08X", f.Instruction, f.PC)
}
