package driverwrap

import (
	"sid2sf2/internal/laxity"
)

// packOrderlist re-encodes a voice's orderlist using the new sequence
// addresses assigned during Wrap. Entries whose old sequence address has
// no corresponding new address (shouldn't happen for a model Extract
// produced, but defensive against hand-built ones) are dropped with their
// original address left unmapped.
func packOrderlist(ol laxity.Orderlist, seqAddrs map[uint16]uint16) []byte {
	out := make([]byte, 0, len(ol.Entries)*3+2)
	for _, e := range ol.Entries {
		newAddr, ok := seqAddrs[e.SeqAddr]
		if !ok {
			continue
		}
		out = append(out, byte(e.Transpose), byte(newAddr), byte(newAddr>>8))
	}
	out = append(out, 0xFF, ol.Loop)
	return out
}

// packPulseTable re-emits a pulse table in native (lo, hi, duration,
// next-index) row order, 0xFF-duration terminated.
func packPulseTable(entries []laxity.PulseEntry) []byte {
	out := make([]byte, 0, len(entries)*4+4)
	for _, e := range entries {
		out = append(out, e.Lo, e.Hi, e.Duration, e.NextIndex)
	}
	out = append(out, 0x00, 0x00, 0xFF, 0x00)
	return out
}

// packFilterTable re-emits a filter table. The two leading speed bytes
// the native format carries ahead of the entries are not retained by
// extraction, so they are written as zero; a driver that depends on a
// nonzero filter speed needs those patched in separately.
func packFilterTable(entries []laxity.FilterEntry) []byte {
	out := make([]byte, 0, len(entries)*4+6)
	out = append(out, 0x00, 0x00)
	for _, e := range entries {
		out = append(out, e.Cutoff, e.Add, e.Delay, e.Next)
	}
	out = append(out, 0xFF, 0x00, 0x00, 0x00)
	return out
}

// packCommandTable re-emits a command table row-major, 3 bytes per entry
// (opcode, p1, p2), with no terminator: row count is carried by the
// table's DriverTables entry, not by a sentinel byte.
func packCommandTable(entries []laxity.CommandEntry) []byte {
	out := make([]byte, 0, len(entries)*3)
	for _, e := range entries {
		out = append(out, e.Opcode, e.P1, e.P2)
	}
	return out
}

// packInstruments re-emits the instrument table column-major, matching
// the layout extractInstruments reads.
func packInstruments(insts []laxity.Instrument) []byte {
	n := len(insts)
	out := make([]byte, n*8)
	for i, in := range insts {
		out[0*n+i] = in.AD
		out[1*n+i] = in.SR
		out[2*n+i] = in.WaveSpeed
		out[3*n+i] = in.FX
		out[4*n+i] = in.FilterCtl
		out[5*n+i] = in.FilterPtr
		out[6*n+i] = in.PulsePtr
		out[7*n+i] = in.WavePtr
	}
	return out
}
