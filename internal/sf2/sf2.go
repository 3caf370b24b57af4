// Package sf2 reads and writes the SID Factory II container format: a PRG
// carrying a magic word, five required header blocks, and the music data
// (orderlists, sequences, and per-driver tables) those blocks describe.
package sf2

import (
	"encoding/binary"

	"sid2sf2/internal/convertio"
)

// File is a fully parsed SF2 image.
type File struct {
	LoadAddr   uint16
	Descriptor Descriptor
	Common     DriverCommon
	Tables     []TableDef
	InstDesc   InstrumentDescriptor
	Music      MusicData

	// Image is the complete memory image starting at LoadAddr, including
	// the header blocks and all music data — callers slice out whatever
	// region they need relative to LoadAddr.
	Image []byte
}

// Parse reads an SF2 PRG: 2-byte load address prefix, magic 0x1337 at that
// address, then the five required header blocks. validate then requires all
// five blocks, exactly one TableInstruments and one TableCommands table,
// and every orderlist and sequence address inside the image.
func Parse(data []byte) (*File, error) {
	if len(data) < 2 {
		return nil, &convertio.FormatError{Offset: 0, Reason: "file shorter than PRG load-address prefix"}
	}
	loadAddr := binary.LittleEndian.Uint16(data[0:2])
	image := data[2:]

	if len(image) < 2 {
		return nil, &convertio.FormatError{Offset: 2, Reason: "file too short to contain the 0x1337 magic"}
	}
	magic := binary.LittleEndian.Uint16(image[0:2])
	if magic != Magic {
		return nil, &convertio.FormatError{Offset: 2, Reason: "magic word is not 0x1337"}
	}

	blocks, _, err := readBlocks(image, 2)
	if err != nil {
		return nil, err
	}

	f := &File{LoadAddr: loadAddr, Image: image}
	var haveDescriptor, haveCommon, haveTables, haveInstDesc, haveMusic bool

	for _, b := range blocks {
		switch b.ID {
		case BlockDescriptor:
			f.Descriptor, err = parseDescriptor(b.Payload)
			haveDescriptor = err == nil
		case BlockDriverCommon:
			f.Common, err = parseDriverCommon(b.Payload)
			haveCommon = err == nil
		case BlockDriverTables:
			f.Tables, err = parseDriverTables(b.Payload)
			haveTables = err == nil
		case BlockDriverInstrumentDescriptor:
			f.InstDesc, err = parseInstrumentDescriptor(b.Payload)
			haveInstDesc = err == nil
		case BlockMusicData:
			f.Music, err = parseMusicData(b.Payload)
			haveMusic = err == nil
		default:
			continue // unknown block IDs are skipped but not fatal
		}
		if err != nil {
			return nil, err
		}
	}

	if err := f.validate(haveDescriptor, haveCommon, haveTables, haveInstDesc, haveMusic); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) validate(haveDescriptor, haveCommon, haveTables, haveInstDesc, haveMusic bool) error {
	if !haveDescriptor {
		return &convertio.ValidationError{Subject: "Descriptor block", Reason: "missing or malformed"}
	}
	if !haveCommon {
		return &convertio.ValidationError{Subject: "DriverCommon block", Reason: "missing or malformed"}
	}
	if !haveTables {
		return &convertio.ValidationError{Subject: "DriverTables block", Reason: "missing or malformed"}
	}
	if !haveInstDesc {
		return &convertio.ValidationError{Subject: "DriverInstrumentDescriptor block", Reason: "missing or malformed"}
	}
	if !haveMusic {
		return &convertio.ValidationError{Subject: "MusicData block", Reason: "missing or malformed"}
	}

	var instruments, commands int
	for _, t := range f.Tables {
		switch t.Kind {
		case TableInstruments:
			instruments++
		case TableCommands:
			commands++
		}
	}
	if instruments != 1 {
		return &convertio.ValidationError{Subject: "DriverTables", Reason: "must contain exactly one Instruments (0x80) table"}
	}
	if commands != 1 {
		return &convertio.ValidationError{Subject: "DriverTables", Reason: "must contain exactly one Commands (0x81) table"}
	}

	limit := int(f.LoadAddr) + len(f.Image)
	for i := 0; i < int(f.Music.TrackCount); i++ {
		addr := int(f.Music.OrderlistAddr(i))
		if addr < int(f.LoadAddr) || addr >= limit {
			return &convertio.ValidationError{Subject: "MusicData", Reason: "orderlist address outside file bounds"}
		}
	}
	for i := 0; i < int(f.Music.SequenceCount); i++ {
		addr := int(f.Music.SequenceAddr(i))
		if addr < int(f.LoadAddr) || addr >= limit {
			return &convertio.ValidationError{Subject: "MusicData", Reason: "sequence address outside file bounds"}
		}
	}

	return nil
}

func buildHeader(d Descriptor, c DriverCommon, tables []TableDef, instDesc InstrumentDescriptor, music MusicData) []byte {
	var header []byte
	appendBlock := func(id byte, payload []byte) {
		header = append(header, id, byte(len(payload)))
		header = append(header, payload...)
	}
	appendBlock(BlockDescriptor, d.marshal())
	appendBlock(BlockDriverCommon, c.marshal())
	appendBlock(BlockDriverTables, marshalDriverTables(tables))
	appendBlock(BlockDriverInstrumentDescriptor, instDesc.marshal())
	appendBlock(BlockMusicData, music.marshal())
	header = append(header, BlockTerminator)
	return header
}

// HeaderSize returns the number of bytes Write would emit for the five
// header blocks (including the terminator, excluding the magic word and
// the PRG load-address prefix) — callers that need to place data at fixed
// absolute addresses after the header use this to compute the required
// padding.
func HeaderSize(d Descriptor, c DriverCommon, tables []TableDef, instDesc InstrumentDescriptor, music MusicData) int {
	return len(buildHeader(d, c, tables, instDesc, music))
}

// Bytes returns the length bytes of the image starting at absolute address
// addr (relative to LoadAddr), or nil if that range is not inside the image.
func (f *File) Bytes(addr uint16, length int) []byte {
	off := int(addr) - int(f.LoadAddr)
	if off < 0 || off+length > len(f.Image) {
		return nil
	}
	return f.Image[off : off+length]
}

// Write assembles the header blocks and appends driverAndMusicData (the
// driver code, orderlists, sequences, and tables, already laid out so that
// every address the header blocks reference lands correctly once this
// region starts right after the header) into a full SF2 PRG: a 2-byte
// load-address prefix, the 0x1337 magic, the five required header blocks
// terminated by 0xFF, then the data region verbatim.
func Write(loadAddr uint16, d Descriptor, c DriverCommon, tables []TableDef, instDesc InstrumentDescriptor, music MusicData, driverAndMusicData []byte) []byte {
	header := buildHeader(d, c, tables, instDesc, music)

	var magicBytes [2]byte
	binary.LittleEndian.PutUint16(magicBytes[:], Magic)

	image := make([]byte, 0, 2+len(header)+len(driverAndMusicData))
	image = append(image, magicBytes[:]...)
	image = append(image, header...)
	image = append(image, driverAndMusicData...)

	var prefix [2]byte
	binary.LittleEndian.PutUint16(prefix[:], loadAddr)
	out := make([]byte, 0, 2+len(image))
	out = append(out, prefix[:]...)
	out = append(out, image...)
	return out
}
