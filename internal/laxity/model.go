package laxity

import "sid2sf2/internal/sf2"

// Instrument is one 8-byte Laxity instrument row, read column-major: all
// AD bytes first, then all SR bytes, and so on — never interleaved.
type Instrument struct {
	AD, SR       byte
	WaveSpeed    byte
	FX           byte
	FilterCtl    byte
	FilterPtr    byte
	PulsePtr     byte
	WavePtr      byte
}

// OrderEntry is one (transpose, sequence-address) pair from an orderlist.
// The sequence is addressed directly, matching the layout this package's
// native table format actually carries: the data at each orderlist slot is
// a transpose byte and the absolute address of the sequence to play, not
// an index into an external sequence table.
type OrderEntry struct {
	Transpose int8
	SeqAddr   uint16
}

// Orderlist is one voice's ordered sequence references, 0xFF-terminated,
// plus the loop index the terminator's following byte carries.
type Orderlist struct {
	Entries []OrderEntry
	Loop    byte
}

// PulseEntry is one 4-byte pulse-table row: (lo, hi, duration,
// next-index-x4), 0xFF-terminated.
type PulseEntry struct {
	Lo, Hi, Duration, NextIndex byte
}

// FilterEntry is one 4-byte filter-table row: (cutoff-or-terminator, add,
// delay, next). The first two bytes of the table carry speed data ahead of
// the entries proper.
type FilterEntry struct {
	Cutoff, Add, Delay, Next byte
}

// WaveTable holds the two parallel 128-entry arrays Laxity keeps separate:
// waveform byte and note offset. Never interleaved, here or on disk.
type WaveTable struct {
	Waveform   [waveTableEntries]byte
	NoteOffset [waveTableEntries]byte
}

// CommandEntry is one 3-byte command-table row: an opcode and up to two
// parameter bytes, matching the SF2 Commands (0x81) table's row shape.
type CommandEntry struct {
	Opcode, P1, P2 byte
}

// Model is the complete extracted music data for one Laxity tune, ready
// to hand to the driver wrapper.
type Model struct {
	Addrs       Addresses
	Orderlists  [3]Orderlist
	Sequences   map[uint16][]sf2.Event // keyed by absolute address
	Instruments []Instrument
	Pulse       []PulseEntry
	Filter      []FilterEntry
	Wave        WaveTable

	// Commands holds extracted command-table rows, ≤64 entries. No Laxity
	// NewPlayer v21 disassembly was available to ground a native command
	// table offset, so extraction always leaves this empty; driverwrap.Wrap
	// discloses this with a warning rather than silently fabricating a
	// table (see DESIGN.md).
	Commands []CommandEntry

	// CodeStart and CodeEnd are a slot for the range of source-image bytes
	// that are player code rather than data tables. Extract does not set
	// them (they stay zero), and driverwrap does not read them.
	CodeStart, CodeEnd uint16
}
