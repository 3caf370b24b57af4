package laxity

import (
	"fmt"

	"sid2sf2/internal/convertio"
	"sid2sf2/internal/sf2"
)

// Extract performs static extraction from a memory image known to hold a
// Laxity NewPlayer v21 variant loaded at base. Pulse- and filter-table
// check failures and undecodable sequences are reported as warnings and do
// not abort extraction; the rest of the model is still returned. An
// orderlist that fails its structural check (no terminator, or a loop index
// that addresses no entry) aborts extraction with an ExtractionError.
func Extract(mem *[65536]byte, base uint16, warnings *convertio.Warnings) (*Model, error) {
	addrs := ResolveAddresses(base)

	m := &Model{
		Addrs:     addrs,
		Sequences: make(map[uint16][]sf2.Event),
	}

	m.Instruments = extractInstruments(mem, addrs)
	m.Pulse = extractPulseTable(mem, addrs, warnings)
	m.Filter = extractFilterTable(mem, addrs, warnings)
	m.Wave = extractWaveTable(mem, addrs)

	for v := 0; v < 3; v++ {
		orderlist, err := extractOrderlist(mem, addrs.Orderlists[v])
		if err != nil {
			return nil, err
		}
		m.Orderlists[v] = orderlist

		for _, entry := range orderlist.Entries {
			if _, ok := m.Sequences[entry.SeqAddr]; ok {
				continue
			}
			events, err := sf2.UnpackSequence(mem[entry.SeqAddr:])
			if err != nil {
				warnings.Add("laxity-extract", "sequence at $%04X: %s", entry.SeqAddr, err)
				continue
			}
			m.Sequences[entry.SeqAddr] = events
		}
	}

	return m, nil
}

// extractInstruments reads the 32x8 instrument table column-major: field i
// of every instrument is stored contiguously before field i+1 begins.
func extractInstruments(mem *[65536]byte, addrs Addresses) []Instrument {
	insts := make([]Instrument, numInstruments)
	field := func(column, row int) byte {
		return mem[int(addrs.Instruments)+column*numInstruments+row]
	}
	for i := 0; i < numInstruments; i++ {
		insts[i] = Instrument{
			AD:        field(0, i),
			SR:        field(1, i),
			WaveSpeed: field(2, i),
			FX:        field(3, i),
			FilterCtl: field(4, i),
			FilterPtr: field(5, i),
			PulsePtr:  field(6, i),
			WavePtr:   field(7, i),
		}
	}
	return insts
}

func extractPulseTable(mem *[65536]byte, addrs Addresses, warnings *convertio.Warnings) []PulseEntry {
	var entries []PulseEntry
	for i := 0; i < numPulseEntries; i++ {
		off := int(addrs.PulseTable) + i*pulseEntryBytes
		e := PulseEntry{Lo: mem[off], Hi: mem[off+1], Duration: mem[off+2], NextIndex: mem[off+3]}
		if e.Duration == 0xFF {
			break
		}
		if e.NextIndex%4 != 0 || int(e.NextIndex) > numPulseEntries*4 {
			warnings.Add("laxity-extract", "pulse entry %d: next-index %d is not a valid x4 index", i, e.NextIndex)
		}
		entries = append(entries, e)
	}
	return entries
}

func extractFilterTable(mem *[65536]byte, addrs Addresses, warnings *convertio.Warnings) []FilterEntry {
	var entries []FilterEntry
	// First two bytes of the table are speed data, not an entry.
	base := int(addrs.FilterTable) + 2
	for i := 0; i < numFilterEntries; i++ {
		off := base + i*filterEntryBytes
		e := FilterEntry{Cutoff: mem[off], Add: mem[off+1], Delay: mem[off+2], Next: mem[off+3]}
		if e.Cutoff == 0xFF {
			break
		}
		if e.Delay == 0 {
			warnings.Add("laxity-extract", "filter entry %d: zero delay on a non-terminator row", i)
		}
		entries = append(entries, e)
	}
	return entries
}

func extractWaveTable(mem *[65536]byte, addrs Addresses) WaveTable {
	var wt WaveTable
	for i := 0; i < waveTableEntries; i++ {
		wt.Waveform[i] = mem[int(addrs.Waveforms)+i]
		wt.NoteOffset[i] = mem[int(addrs.WaveNotes)+i]
	}
	return wt
}

// extractOrderlist reads (transpose, sequence-address) pairs starting at
// addr until a 0xFF transpose byte terminates the list; the byte
// immediately after the terminator is the loop index, which must address
// one of the entries read before the terminator. An orderlist with no
// entries has nothing for the loop index to address, so it is exempt
// rather than rejected outright regardless of the byte's value.
func extractOrderlist(mem *[65536]byte, addr uint16) (Orderlist, error) {
	var ol Orderlist
	off := int(addr)
	for i := 0; i < maxOrderEntries; i++ {
		if off+2 >= len(mem) {
			return ol, &convertio.ExtractionError{Table: "orderlist", Reason: "ran past end of memory before 0xFF terminator"}
		}
		transpose := mem[off]
		if transpose == 0xFF {
			loop := mem[off+1]
			if len(ol.Entries) > 0 && int(loop) >= len(ol.Entries) {
				return ol, &convertio.ExtractionError{Table: "orderlist", Reason: fmt.Sprintf("loop index %d is not less than the %d non-terminator entries", loop, len(ol.Entries))}
			}
			ol.Loop = loop
			return ol, nil
		}
		lo := mem[off+1]
		hi := mem[off+2]
		ol.Entries = append(ol.Entries, OrderEntry{
			Transpose: int8(transpose),
			SeqAddr:   uint16(lo) | uint16(hi)<<8,
		})
		off += 3
	}
	return ol, &convertio.ExtractionError{Table: "orderlist", Reason: "exceeded 256 entries without a terminator"}
}
