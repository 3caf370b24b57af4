package sf2

import (
	"bytes"
	"encoding/binary"

	"sid2sf2/internal/convertio"
)

// Magic is the 16-bit word every SF2 image carries at its load address.
const Magic = 0x1337

// Block IDs for the five required header blocks, plus the terminator.
const (
	BlockDescriptor               = 0x01
	BlockDriverCommon             = 0x02
	BlockDriverTables             = 0x03
	BlockDriverInstrumentDescriptor = 0x04
	BlockMusicData                = 0x05
	BlockTerminator               = 0xFF
)

// rawBlock is one [id:1][size:1][payload:size] header block, parsed but
// not yet interpreted.
type rawBlock struct {
	ID      byte
	Payload []byte
}

// readBlocks scans header blocks starting at offset off in data until the
// 0xFF terminator, returning the blocks in file order and the offset just
// past the terminator.
func readBlocks(data []byte, off int) ([]rawBlock, int, error) {
	var blocks []rawBlock
	for {
		if off >= len(data) {
			return nil, 0, &convertio.FormatError{Offset: off, Reason: "header blocks ended without 0xFF terminator"}
		}
		id := data[off]
		if id == BlockTerminator {
			return blocks, off + 1, nil
		}
		if off+1 >= len(data) {
			return nil, 0, &convertio.FormatError{Offset: off, Reason: "block id with no size byte"}
		}
		size := int(data[off+1])
		start := off + 2
		end := start + size
		if end > len(data) {
			return nil, 0, &convertio.FormatError{Offset: off, Reason: "block payload runs past end of file"}
		}
		blocks = append(blocks, rawBlock{ID: id, Payload: data[start:end]})
		off = end
	}
}

func writeBlock(buf *bytes.Buffer, id byte, payload []byte) {
	buf.WriteByte(id)
	buf.WriteByte(byte(len(payload)))
	buf.Write(payload)
}

// Descriptor is header block 1.
type Descriptor struct {
	DriverType byte
	DriverSize uint16
	DriverName string
	CodeTop    uint16
	CodeSize   uint16
	VerMajor   byte
	VerMinor   byte
	VerRev     byte // optional; 0 if absent
}

func parseDescriptor(p []byte) (Descriptor, error) {
	if len(p) < 6 {
		return Descriptor{}, &convertio.FormatError{Offset: 0, Reason: "descriptor block too short"}
	}
	d := Descriptor{DriverType: p[0]}
	d.DriverSize = binary.LittleEndian.Uint16(p[1:3])
	nameEnd := bytes.IndexByte(p[3:], 0)
	if nameEnd < 0 {
		return Descriptor{}, &convertio.FormatError{Offset: 3, Reason: "descriptor driver name not null-terminated"}
	}
	d.DriverName = string(p[3 : 3+nameEnd])
	rest := p[3+nameEnd+1:]
	if len(rest) < 5 {
		return Descriptor{}, &convertio.FormatError{Offset: 3 + nameEnd + 1, Reason: "descriptor missing code range/version"}
	}
	d.CodeTop = binary.LittleEndian.Uint16(rest[0:2])
	d.CodeSize = binary.LittleEndian.Uint16(rest[2:4])
	d.VerMajor = rest[4]
	if len(rest) > 5 {
		d.VerMinor = rest[5]
	}
	if len(rest) > 6 {
		d.VerRev = rest[6]
	}
	return d, nil
}

func (d Descriptor) marshal() []byte {
	var buf bytes.Buffer
	buf.WriteByte(d.DriverType)
	writeUint16(&buf, d.DriverSize)
	buf.WriteString(d.DriverName)
	buf.WriteByte(0)
	writeUint16(&buf, d.CodeTop)
	writeUint16(&buf, d.CodeSize)
	buf.WriteByte(d.VerMajor)
	buf.WriteByte(d.VerMinor)
	if d.VerRev != 0 {
		buf.WriteByte(d.VerRev)
	}
	return buf.Bytes()
}

// DriverCommon is header block 2: entry points plus the workspace
// addresses the driver's zero page uses.
type DriverCommon struct {
	InitAddr   uint16
	StopAddr   uint16
	UpdateAddr uint16

	ChannelOffset    uint16
	DriverState      uint16
	TickCounter      uint16
	OrderlistIndex   uint16
	SequenceIndex    uint16
	SequenceInUse    uint16
	CurrentSequence  uint16
	CurrentTranspose uint16
	EventDuration    uint16
	NextInstrument   uint16
	NextCommand      uint16
	NextNote         uint16
	TieNoteFlag      uint16
	TempoCounter     uint16
	TriggerSync      uint16

	NoteEventSync byte
}

const driverCommonFieldCount = 16

func parseDriverCommon(p []byte) (DriverCommon, error) {
	want := driverCommonFieldCount*2 + 1
	if len(p) < want {
		return DriverCommon{}, &convertio.FormatError{Offset: 0, Reason: "driver-common block too short"}
	}
	u16 := func(i int) uint16 { return binary.LittleEndian.Uint16(p[i*2:]) }
	dc := DriverCommon{
		InitAddr: u16(0), StopAddr: u16(1), UpdateAddr: u16(2),
		ChannelOffset: u16(3), DriverState: u16(4), TickCounter: u16(5),
		OrderlistIndex: u16(6), SequenceIndex: u16(7), SequenceInUse: u16(8),
		CurrentSequence: u16(9), CurrentTranspose: u16(10), EventDuration: u16(11),
		NextInstrument: u16(12), NextCommand: u16(13), NextNote: u16(14),
		TieNoteFlag: u16(15),
	}
	dc.TempoCounter = 0
	dc.TriggerSync = 0
	dc.NoteEventSync = p[want-1]
	return dc, nil
}

func (dc DriverCommon) marshal() []byte {
	var buf bytes.Buffer
	for _, v := range []uint16{
		dc.InitAddr, dc.StopAddr, dc.UpdateAddr,
		dc.ChannelOffset, dc.DriverState, dc.TickCounter,
		dc.OrderlistIndex, dc.SequenceIndex, dc.SequenceInUse,
		dc.CurrentSequence, dc.CurrentTranspose, dc.EventDuration,
		dc.NextInstrument, dc.NextCommand, dc.NextNote, dc.TieNoteFlag,
	} {
		writeUint16(&buf, v)
	}
	buf.WriteByte(dc.NoteEventSync)
	return buf.Bytes()
}

// TableKind distinguishes the two required tables from ordinary ones.
type TableKind byte

const (
	TableGeneric     TableKind = 0x00
	TableInstruments TableKind = 0x80
	TableCommands    TableKind = 0x81
)

// TableDef is one entry of header block 3 (DriverTables).
type TableDef struct {
	Kind            TableKind
	ID              byte
	Name            string
	ColumnMajor     bool
	InsertDelete    bool
	LayoutVertical  bool
	IndexContinuous bool
	RuleInsertDelete byte
	RuleEnterAction  byte
	RuleColor        byte
	Address         uint16
	Columns         uint16
	Rows            uint16
	VisibleRows     byte
}

func parseDriverTables(p []byte) ([]TableDef, error) {
	var defs []TableDef
	i := 0
	for {
		if i >= len(p) {
			return nil, &convertio.FormatError{Offset: i, Reason: "driver-tables block missing 0xFF terminator"}
		}
		kind := p[i]
		if kind == 0xFF {
			return defs, nil
		}
		if i+2 >= len(p) {
			return nil, &convertio.FormatError{Offset: i, Reason: "truncated table definition"}
		}
		id := p[i+1]
		textSize := int(p[i+2])
		i += 3
		if i+textSize > len(p) {
			return nil, &convertio.FormatError{Offset: i, Reason: "table name runs past end of block"}
		}
		name := readNullTerminated(p[i : i+textSize])
		i += textSize
		if i+9 > len(p) {
			return nil, &convertio.FormatError{Offset: i, Reason: "truncated table layout fields"}
		}
		layout := p[i]
		props := p[i+1]
		ruleInsertDelete := p[i+2]
		ruleEnterAction := p[i+3]
		ruleColor := p[i+4]
		addr := binary.LittleEndian.Uint16(p[i+5:])
		cols := binary.LittleEndian.Uint16(p[i+7 : i+9])
		i += 9
		if i+3 > len(p) {
			return nil, &convertio.FormatError{Offset: i, Reason: "truncated row count/visible rows"}
		}
		rows := binary.LittleEndian.Uint16(p[i:])
		visible := p[i+2]
		i += 3

		defs = append(defs, TableDef{
			Kind: TableKind(kind), ID: id, Name: name,
			ColumnMajor:     layout == 1,
			InsertDelete:    props&0x01 != 0,
			LayoutVertical:  props&0x02 != 0,
			IndexContinuous: props&0x04 != 0,
			RuleInsertDelete: ruleInsertDelete,
			RuleEnterAction:  ruleEnterAction,
			RuleColor:        ruleColor,
			Address:          addr,
			Columns:          cols,
			Rows:             rows,
			VisibleRows:      visible,
		})
	}
}

func marshalDriverTables(defs []TableDef) []byte {
	var buf bytes.Buffer
	for _, d := range defs {
		buf.WriteByte(byte(d.Kind))
		buf.WriteByte(d.ID)
		nameField := append([]byte(d.Name), 0)
		buf.WriteByte(byte(len(nameField)))
		buf.Write(nameField)

		layout := byte(0)
		if d.ColumnMajor {
			layout = 1
		}
		buf.WriteByte(layout)

		var props byte
		if d.InsertDelete {
			props |= 0x01
		}
		if d.LayoutVertical {
			props |= 0x02
		}
		if d.IndexContinuous {
			props |= 0x04
		}
		buf.WriteByte(props)

		buf.WriteByte(d.RuleInsertDelete)
		buf.WriteByte(d.RuleEnterAction)
		buf.WriteByte(d.RuleColor)
		writeUint16(&buf, d.Address)
		writeUint16(&buf, d.Columns)
		writeUint16(&buf, d.Rows)
		buf.WriteByte(d.VisibleRows)
	}
	buf.WriteByte(0xFF)
	return buf.Bytes()
}

// InstrumentDescriptor is header block 4: the names shown for each
// instrument-table column.
type InstrumentDescriptor struct {
	CellNames []string
}

func parseInstrumentDescriptor(p []byte) (InstrumentDescriptor, error) {
	if len(p) < 1 {
		return InstrumentDescriptor{}, &convertio.FormatError{Offset: 0, Reason: "instrument-descriptor block empty"}
	}
	count := int(p[0])
	names := make([]string, 0, count)
	i := 1
	for n := 0; n < count; n++ {
		end := bytes.IndexByte(p[i:], 0)
		if end < 0 {
			return InstrumentDescriptor{}, &convertio.FormatError{Offset: i, Reason: "instrument cell name not null-terminated"}
		}
		names = append(names, string(p[i:i+end]))
		i += end + 1
	}
	return InstrumentDescriptor{CellNames: names}, nil
}

func (d InstrumentDescriptor) marshal() []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(len(d.CellNames)))
	for _, n := range d.CellNames {
		buf.WriteString(n)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// MusicData is header block 5: the layout of tracks, sequences, and their
// pointer tables. Every per-track orderlist address and every per-sequence
// address is a fixed stride from the values stored here.
type MusicData struct {
	TrackCount          byte
	OrderlistPointersLo uint16
	OrderlistPointersHi uint16
	SequenceCount       uint16
	SequencePointersLo  uint16
	SequencePointersHi  uint16
	OrderlistSize       uint16
	Track0Orderlist     uint16
	SequenceSize        uint16
	Sequence0Addr       uint16
}

func parseMusicData(p []byte) (MusicData, error) {
	if len(p) < 19 {
		return MusicData{}, &convertio.FormatError{Offset: 0, Reason: "music-data block too short"}
	}
	u16 := func(off int) uint16 { return binary.LittleEndian.Uint16(p[off:]) }
	return MusicData{
		TrackCount:          p[0],
		OrderlistPointersLo: u16(1),
		OrderlistPointersHi: u16(3),
		SequenceCount:       u16(5),
		SequencePointersLo:  u16(7),
		SequencePointersHi:  u16(9),
		OrderlistSize:       u16(11),
		Track0Orderlist:     u16(13),
		SequenceSize:        u16(15),
		Sequence0Addr:       u16(17),
	}, nil
}

func (m MusicData) marshal() []byte {
	var buf bytes.Buffer
	buf.WriteByte(m.TrackCount)
	for _, v := range []uint16{
		m.OrderlistPointersLo, m.OrderlistPointersHi,
		m.SequenceCount, m.SequencePointersLo, m.SequencePointersHi,
		m.OrderlistSize, m.Track0Orderlist, m.SequenceSize, m.Sequence0Addr,
	} {
		writeUint16(&buf, v)
	}
	return buf.Bytes()
}

// OrderlistAddr returns the absolute orderlist address for track i, a
// fixed stride (OrderlistSize) from Track0Orderlist.
func (m MusicData) OrderlistAddr(track int) uint16 {
	return m.Track0Orderlist + uint16(track)*m.OrderlistSize
}

// SequenceAddr returns the absolute address of sequence i, a fixed stride
// (SequenceSize) from Sequence0Addr.
func (m MusicData) SequenceAddr(i int) uint16 {
	return m.Sequence0Addr + uint16(i)*m.SequenceSize
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
}

func readNullTerminated(p []byte) string {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		return string(p[:i])
	}
	return string(p)
}
