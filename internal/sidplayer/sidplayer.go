// Package sidplayer drives a cpu6502.CPU through a PSID's init/play
// routines at 50 Hz PAL and captures the resulting SID register writes
// frame by frame.
package sidplayer

import (
	"sid2sf2/internal/convertio"
	"sid2sf2/internal/cpu6502"
	"sid2sf2/internal/psid"
)

// SID register base; 25 registers span 0xD400-0xD41C.
const (
	sidBase   = 0xD400
	sidRegs   = 25
	palClock  = 985248 // Hz, PAL dot clock divided to CPU cycles/frame basis
	framesSec = 50
)

// VoiceState is one voice's register contents for a single frame.
type VoiceState struct {
	Frequency uint16 // 16-bit, regs +0/+1
	PulseW    uint16 // 12-bit, regs +2/+3
	Control   byte   // regs +4
	Envelope  uint16 // AD (regs +5) << 8 | SR (regs +6), kept as one 16-bit value
}

// FrameState is one 50 Hz snapshot of the SID's 25 registers, decoded into
// the three voices plus the filter/volume section.
type FrameState struct {
	Voices       [3]VoiceState
	FilterCutoff uint16 // 11-bit, regs 0x15/0x16
	FilterCtl    byte   // reg 0x17
	FilterVol    byte   // reg 0x18

	// Raw carries the untouched 25-byte register block, for callers that
	// want byte-exact comparison rather than the decoded view.
	Raw [sidRegs]byte
}

// Harness owns a CPU and the last-loaded PSID metadata needed to drive it.
type Harness struct {
	CPU  *cpu6502.CPU
	File *psid.File

	regs [sidRegs]byte
}

// New constructs a Harness around a fresh CPU.
func New() *Harness {
	return &Harness{CPU: cpu6502.New()}
}

// Init parses sidBytes, loads its payload at the load address, and calls
// the init routine with the requested subtune (1-based; converted to the
// 0-based accumulator value the init routine expects).
func (h *Harness) Init(sidBytes []byte, subtune int) error {
	f, err := psid.Parse(sidBytes)
	if err != nil {
		return err
	}
	h.File = f
	h.CPU = cpu6502.New()
	h.CPU.Load(f.LoadAddr, f.Image)
	h.CPU.OnWrite = h.onWrite

	sub := byte(0)
	if subtune > 0 {
		sub = byte(subtune - 1)
	}

	if err := h.CPU.CallSubroutineNamed(f.Header.InitAddr, sub, "init"); err != nil {
		return toEmulationError(err)
	}
	return nil
}

// RunFrames calls the play routine n times, snapshotting the SID registers
// after each RTS, and returns the ordered trace. Frame i's state reflects
// exactly one play-routine invocation after frame i-1.
func (h *Harness) RunFrames(n int) ([]FrameState, error) {
	trace := make([]FrameState, 0, n)
	for i := 0; i < n; i++ {
		if err := h.CPU.CallSubroutineNamed(h.File.Header.PlayAddr, 0, "play"); err != nil {
			return trace, toEmulationError(err)
		}
		trace = append(trace, h.snapshot())
	}
	return trace, nil
}

func (h *Harness) onWrite(addr uint16, value byte) {
	if addr >= sidBase && addr < sidBase+sidRegs {
		h.regs[addr-sidBase] = value
	}
}

func (h *Harness) snapshot() FrameState {
	var fs FrameState
	copy(fs.Raw[:], h.regs[:])

	for v := 0; v < 3; v++ {
		base := v * 7
		fs.Voices[v] = VoiceState{
			Frequency: uint16(h.regs[base]) | uint16(h.regs[base+1])<<8,
			PulseW:    (uint16(h.regs[base+2]) | uint16(h.regs[base+3])<<8) & 0x0FFF,
			Control:   h.regs[base+4],
			Envelope:  uint16(h.regs[base+5])<<8 | uint16(h.regs[base+6]),
		}
	}
	fs.FilterCutoff = (uint16(h.regs[0x15]) | uint16(h.regs[0x16])<<8) & 0x07FF
	fs.FilterCtl = h.regs[0x17]
	fs.FilterVol = h.regs[0x18]
	return fs
}

func toEmulationError(err error) error {
	switch e := err.(type) {
	case *cpu6502.UnknownOpcodeError:
		return &convertio.EmulationError{PC: e.PC, Opcode: e.Opcode, Reason: "unknown-opcode"}
	case *cpu6502.BudgetExhaustedError:
		return &convertio.EmulationError{Reason: "budget-exhausted", Routine: e.Routine, Budget: e.Budget}
	default:
		return err
	}
}
