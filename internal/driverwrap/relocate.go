// Package driverwrap embeds an extracted Laxity player's original machine
// code into the SF2 memory map (relocation, pointer patching, table
// injection), and reverses the process to re-emit a playable PSID.
package driverwrap

import (
	"fmt"

	"sid2sf2/internal/convertio"
	"sid2sf2/internal/cpu6502"
)

// CodePatch records one absolute operand this package adjusted during
// relocation, for diagnostics.
type CodePatch struct {
	OldPC    uint16
	NewPC    uint16
	OldValue uint16
	NewValue uint16
}

// Relocate copies code (originally based at oldBase) to run at newBase: it
// disassembles linearly using cpu6502's instruction-length table, and for
// every instruction whose absolute operand falls inside
// [oldBase, oldBase+len(code)) shifts that operand by delta = newBase -
// oldBase. Indirect JMP's operand is the address of a pointer, itself
// adjusted the same way; the word stored at that pointer is a data pointer
// and is not touched here — see ApplyDataPointerPatches.
func Relocate(code []byte, oldBase, newBase uint16) ([]byte, []CodePatch) {
	delta := int32(newBase) - int32(oldBase)
	out := make([]byte, len(code))
	copy(out, code)

	var patches []CodePatch
	oldEnd := oldBase + uint16(len(code))

	i := 0
	for i < len(out) {
		opcode := out[i]
		length, hasAbs := cpu6502.InstrLength(opcode)
		if hasAbs && i+2 < len(out) {
			operand := uint16(out[i+1]) | uint16(out[i+2])<<8
			if operand >= oldBase && operand < oldEnd {
				newOperand := uint16(int32(operand) + delta)
				out[i+1] = byte(newOperand)
				out[i+2] = byte(newOperand >> 8)
				patches = append(patches, CodePatch{
					OldPC:    oldBase + uint16(i),
					NewPC:    newBase + uint16(i),
					OldValue: operand,
					NewValue: newOperand,
				})
			}
		}
		if length <= 0 {
			length = 1
		}
		i += length
	}

	return out, patches
}

// DataPointerPatch is one explicit, declarative relocation of a pointer
// value embedded in data rather than in a code operand: the relocator is
// told exactly which old address to look for and where, rather than
// inferring it from a scan.
type DataPointerPatch struct {
	Label    string
	Offset   int // offset within the relocated code buffer
	OldValue uint16
	NewValue uint16
}

// ApplyDataPointerPatches writes each patch's NewValue (little-endian) at
// its Offset, after checking the buffer currently holds OldValue there —
// a mismatch means the patch list and the code disagree, which is always a
// bug worth surfacing rather than silently overwriting the wrong bytes.
func ApplyDataPointerPatches(buf []byte, patches []DataPointerPatch) error {
	for _, p := range patches {
		if p.Offset+1 >= len(buf) {
			return &convertio.RelocationError{Addr: p.NewValue, Reason: fmt.Sprintf("patch %q offset out of range", p.Label)}
		}
		got := uint16(buf[p.Offset]) | uint16(buf[p.Offset+1])<<8
		if got != p.OldValue {
			return &convertio.RelocationError{
				Addr:   uint16(p.Offset),
				Reason: fmt.Sprintf("patch %q expected old value $%04X, found $%04X", p.Label, p.OldValue, got),
			}
		}
		buf[p.Offset] = byte(p.NewValue)
		buf[p.Offset+1] = byte(p.NewValue >> 8)
	}
	return nil
}
