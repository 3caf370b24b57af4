package sf2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTables() []TableDef {
	return []TableDef{
		{Kind: TableInstruments, ID: 1, Name: "Instruments", Address: 0x1B00, Columns: 8, Rows: 32, VisibleRows: 16},
		{Kind: TableCommands, ID: 2, Name: "Commands", Address: 0x1C00, Columns: 3, Rows: 64, VisibleRows: 16},
	}
}

func buildMinimalFile(loadAddr uint16) []byte {
	d := Descriptor{DriverType: 1, DriverSize: 0x900, DriverName: "laxity", CodeTop: loadAddr, CodeSize: 0x900, VerMajor: 1, VerMinor: 0}
	c := DriverCommon{InitAddr: loadAddr, StopAddr: loadAddr + 3, UpdateAddr: loadAddr + 6}
	instDesc := InstrumentDescriptor{CellNames: []string{"AD", "SR"}}
	music := MusicData{
		TrackCount: 3, OrderlistSize: 256, Track0Orderlist: 0x1900,
		SequenceCount: 2, SequenceSize: 256, Sequence0Addr: 0x1C00,
	}

	data := make([]byte, 4096)
	return Write(loadAddr, d, c, sampleTables(), instDesc, music, data)
}

func TestWriteThenParseRoundTrip(t *testing.T) {
	raw := buildMinimalFile(0x1000)

	f, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1000), f.LoadAddr)
	require.Equal(t, "laxity", f.Descriptor.DriverName)
	require.Len(t, f.Tables, 2)
	require.Equal(t, byte(3), f.Music.TrackCount)
}

func TestParseRejectsBadMagic(t *testing.T) {
	raw := buildMinimalFile(0x1000)
	raw[2] = 0x00 // corrupt magic low byte
	raw[3] = 0x00
	_, err := Parse(raw)
	require.Error(t, err)
}

func TestParseRequiresExactlyOneInstrumentsAndCommandsTable(t *testing.T) {
	d := Descriptor{DriverName: "x"}
	c := DriverCommon{}
	instDesc := InstrumentDescriptor{}
	music := MusicData{TrackCount: 3, OrderlistSize: 256, Track0Orderlist: 0x1900, SequenceCount: 1, SequenceSize: 256, Sequence0Addr: 0x1B00}
	tables := []TableDef{{Kind: TableGeneric, Name: "Wave"}}

	raw := Write(0x1000, d, c, tables, instDesc, music, make([]byte, 4096))
	_, err := Parse(raw)
	require.Error(t, err)
}

func TestMusicDataStrideAddressing(t *testing.T) {
	m := MusicData{Track0Orderlist: 0x1900, OrderlistSize: 0x100, Sequence0Addr: 0x1B00, SequenceSize: 0x100}
	require.Equal(t, uint16(0x1900), m.OrderlistAddr(0))
	require.Equal(t, uint16(0x1A00), m.OrderlistAddr(1))
	require.Equal(t, uint16(0x1B00), m.SequenceAddr(0))
	require.Equal(t, uint16(0x1C00), m.SequenceAddr(1))
}
