package driverwrap

import (
	"fmt"
	"sort"

	"sid2sf2/internal/convertio"
	"sid2sf2/internal/laxity"
	"sid2sf2/internal/sf2"
)

// EntryPoints names a player's three callable routines, in its original
// (pre-relocation) address space.
type EntryPoints struct {
	Init uint16
	Play uint16
	Stop uint16
}

// TableAddrs records where Wrap placed every table in the finished image,
// for callers building the declarative pointer-patch list or inspecting
// the result.
type TableAddrs struct {
	Orderlists  [TrackCount]uint16
	Filter      uint16
	Pulse       uint16
	Commands    uint16
	Instruments uint16
	Waveforms   uint16
	WaveNotes   uint16
	Sequences   uint16
}

// WrapResult is everything Wrap produced: the finished SF2 PRG plus the
// bookkeeping needed to verify or extend it.
type WrapResult struct {
	Image         []byte
	EntryPoints   EntryPoints // relocated
	CodePatches   []CodePatch
	SequenceAddrs map[uint16]uint16 // old address -> new address
	Tables        TableAddrs
}

// Wrap embeds an extracted Laxity model's player code and data into a
// fresh SID Factory II image. code is the player's executable routines
// only (not its data tables, which Wrap rebuilds from model in their own
// fixed locations); oldBase is the address code was originally linked
// against. patches is the caller-supplied, pre-verified list of data
// pointers inside code that reference table addresses and must be
// corrected to the new table locations — Wrap does not infer these; a
// caller without a disassembly-derived patch list should pass nil and
// expect a driver that does not read its own tables correctly. warnings
// collects non-fatal diagnostics, in particular the disclosure emitted
// when model.Commands is empty and the Commands table is filled from the
// first three bytes of each Pulse table row (see DESIGN.md); it may be nil.
func Wrap(model *laxity.Model, code []byte, oldBase uint16, entry EntryPoints, patches []DataPointerPatch, warnings *convertio.Warnings) (*WrapResult, error) {
	if len(code) > RelocatedCodeMax {
		return nil, &convertio.RelocationError{
			Addr:   oldBase,
			Reason: fmt.Sprintf("player code is %d bytes, exceeds the %d-byte relocated code budget", len(code), RelocatedCodeMax),
		}
	}

	relocated, codePatches := Relocate(code, oldBase, RelocatedCodeAddr)
	if err := ApplyDataPointerPatches(relocated, patches); err != nil {
		return nil, err
	}

	delta := int32(RelocatedCodeAddr) - int32(oldBase)
	shift := func(addr uint16) uint16 { return uint16(int32(addr) + delta) }
	newEntry := EntryPoints{Init: shift(entry.Init), Play: shift(entry.Play), Stop: shift(entry.Stop)}
	stub := wrapperStub(newEntry.Init, newEntry.Play, newEntry.Stop)

	seqKeys := make([]uint16, 0, len(model.Sequences))
	for addr := range model.Sequences {
		seqKeys = append(seqKeys, addr)
	}
	sort.Slice(seqKeys, func(i, j int) bool { return seqKeys[i] < seqKeys[j] })

	seqAddrs := make(map[uint16]uint16, len(seqKeys))
	seqBytes := make([]byte, 0, len(seqKeys)*SequenceStride)
	for i, old := range seqKeys {
		packed, err := sf2.PackSequence(model.Sequences[old])
		if err != nil {
			return nil, err
		}
		if len(packed) > SequenceStride {
			return nil, &convertio.ValidationError{
				Subject: "sequence",
				Reason:  fmt.Sprintf("packed sequence at $%04X is %d bytes, exceeds the %d-byte slot", old, len(packed), SequenceStride),
			}
		}
		slot := make([]byte, SequenceStride)
		copy(slot, packed)
		seqBytes = append(seqBytes, slot...)
		seqAddrs[old] = SequenceDataAddr + uint16(i*SequenceStride)
	}

	var tableAddrs TableAddrs
	orderlistsBytes := make([]byte, TrackCount*OrderlistStride)
	for v := 0; v < TrackCount; v++ {
		tableAddrs.Orderlists[v] = OrderlistsAddr + uint16(v*OrderlistStride)
		packed := packOrderlist(model.Orderlists[v], seqAddrs)
		if len(packed) > OrderlistStride {
			return nil, &convertio.ValidationError{
				Subject: "orderlist",
				Reason:  fmt.Sprintf("voice %d orderlist is %d bytes, exceeds the %d-byte slot", v, len(packed), OrderlistStride),
			}
		}
		copy(orderlistsBytes[v*OrderlistStride:], packed)
	}

	filterBytes := packFilterTable(model.Filter)
	pulseBytes := packPulseTable(model.Pulse)
	instrumentBytes := packInstruments(model.Instruments)
	waveBytes := DeinterleaveWaveTable(model.Wave)

	// No Laxity NewPlayer v21 disassembly was available to ground a native
	// command-table offset (see DESIGN.md), so extraction never populates
	// model.Commands. Rather than emit an SF2 image with no Commands(0x81)
	// table at all — which spec requires — fall back to a disclosed
	// reshaping of the Pulse table's first three bytes per row into the
	// Commands row shape, loudly warned rather than silently relabeled as
	// if it were real command data.
	var commandEntries []laxity.CommandEntry
	if len(model.Commands) > 0 {
		if len(model.Commands) > 64 {
			return nil, &convertio.ValidationError{
				Subject: "commands",
				Reason:  fmt.Sprintf("command table has %d entries, exceeds the 64-entry limit", len(model.Commands)),
			}
		}
		commandEntries = model.Commands
	} else {
		for _, p := range model.Pulse {
			commandEntries = append(commandEntries, laxity.CommandEntry{Opcode: p.Lo, P1: p.Hi, P2: p.Duration})
		}
		if warnings != nil {
			warnings.Add("driverwrap-wrap", "no command table extracted; Commands(0x81) table is reshaped from the Pulse table's data, not real command data")
		}
	}
	commandBytes := packCommandTable(commandEntries)
	commandRows := uint16(len(commandEntries))

	tableAddrs.Filter = FilterTableAddr
	tableAddrs.Pulse = PulseTableAddr
	tableAddrs.Commands = CommandTableAddr
	tableAddrs.Instruments = InstrumentsAddr
	tableAddrs.Waveforms = WaveformsAddr
	tableAddrs.WaveNotes = WaveNotesAddr
	tableAddrs.Sequences = SequenceDataAddr

	descriptor, common, tables, instDesc, music := buildHeaderBlocks(newEntry, tableAddrs, len(model.Instruments), len(seqKeys), commandRows)

	headerLen := sf2.HeaderSize(descriptor, common, tables, instDesc, music)
	bodyStart := LoadAddr + 2 + headerLen

	lay := &placer{pos: uint16(bodyStart)}
	for _, region := range []struct {
		addr uint16
		data []byte
	}{
		{WrapperStubAddr, stub},
		{RelocatedCodeAddr, relocated},
		{OrderlistsAddr, orderlistsBytes},
		{FilterTableAddr, filterBytes},
		{PulseTableAddr, pulseBytes},
		{InstrumentsAddr, instrumentBytes},
		{WaveformsAddr, waveBytes},
		{CommandTableAddr, commandBytes},
		{SequenceDataAddr, seqBytes},
	} {
		if err := lay.at(region.addr, region.data); err != nil {
			return nil, &convertio.RelocationError{Addr: region.addr, Reason: err.Error()}
		}
	}

	image := sf2.Write(LoadAddr, descriptor, common, tables, instDesc, music, lay.buf)

	return &WrapResult{
		Image:         image,
		EntryPoints:   newEntry,
		CodePatches:   codePatches,
		SequenceAddrs: seqAddrs,
		Tables:        tableAddrs,
	}, nil
}

// buildHeaderBlocks assembles the five SF2 header blocks describing the
// layout Wrap just computed.
func buildHeaderBlocks(entry EntryPoints, t TableAddrs, instrumentCount, sequenceCount int, commandRows uint16) (sf2.Descriptor, sf2.DriverCommon, []sf2.TableDef, sf2.InstrumentDescriptor, sf2.MusicData) {
	descriptor := sf2.Descriptor{
		DriverType: 0x01,
		DriverSize: RelocatedCodeMax,
		DriverName: "Laxity NewPlayer v21 (wrapped)",
		CodeTop:    RelocatedCodeAddr,
		CodeSize:   uint16(RelocatedCodeMax),
		VerMajor:   1,
		VerMinor:   0,
	}

	common := sf2.DriverCommon{
		InitAddr:   entry.Init,
		StopAddr:   entry.Stop,
		UpdateAddr: entry.Play,
	}

	tables := []sf2.TableDef{
		{Kind: sf2.TableInstruments, ID: 0, Name: "Instruments", ColumnMajor: true, Address: t.Instruments, Columns: 8, Rows: uint16(instrumentCount), VisibleRows: 16},
		{Kind: sf2.TableCommands, ID: 1, Name: "Commands", ColumnMajor: false, Address: t.Commands, Columns: 3, Rows: commandRows, VisibleRows: 16},
		{Kind: sf2.TableGeneric, ID: 2, Name: "Filters", ColumnMajor: true, Address: t.Filter, Columns: 4, Rows: 32, VisibleRows: 16},
		{Kind: sf2.TableGeneric, ID: 3, Name: "Wavetable", ColumnMajor: true, Address: t.Waveforms, Columns: 2, Rows: 128, VisibleRows: 16},
	}

	instDesc := sf2.InstrumentDescriptor{
		CellNames: []string{"AD", "SR", "WaveSpeed", "FX", "FilterCtl", "FilterPtr", "PulsePtr", "WavePtr"},
	}

	music := sf2.MusicData{
		TrackCount:      TrackCount,
		SequenceCount:   uint16(sequenceCount),
		OrderlistSize:   OrderlistStride,
		Track0Orderlist: t.Orderlists[0],
		SequenceSize:    SequenceStride,
		Sequence0Addr:   t.Sequences,
	}

	return descriptor, common, tables, instDesc, music
}

// placer lays out byte regions at fixed absolute addresses, padding gaps
// with zeros and rejecting any region whose address has already been
// passed.
type placer struct {
	buf []byte
	pos uint16
}

func (p *placer) at(addr uint16, data []byte) error {
	if addr < p.pos {
		return fmt.Errorf("region at $%04X overlaps data already placed through $%04X", addr, p.pos-1)
	}
	p.buf = append(p.buf, make([]byte, int(addr)-int(p.pos))...)
	p.buf = append(p.buf, data...)
	p.pos = addr + uint16(len(data))
	return nil
}
