// Package psid parses and emits PSID/RSID container headers: the
// magic-tagged envelope that wraps a C64 PRG payload with load/init/play
// addresses and textual metadata.
package psid

import (
	"bytes"
	"encoding/binary"

	"sid2sf2/internal/convertio"
)

const (
	magicPSID = "PSID"
	magicRSID = "RSID"

	v1DataOffset = 0x76
	v2DataOffset = 0x7C

	v1HeaderSize = 0x76
	v2HeaderSize = 0x7C

	textFieldSize = 32
)

// Header is a parsed PSID/RSID header. DataOffset, once read, is no longer
// needed by callers: Payload already starts at the right byte.
type Header struct {
	Magic      string
	Version    uint16
	DataOffset uint16
	LoadAddr   uint16
	InitAddr   uint16
	PlayAddr   uint16
	Songs      uint16
	StartSong  uint16
	SpeedFlags uint32
	Title      string
	Author     string
	Released   string

	// Payload is the PRG-body bytes following the header (and, when
	// LoadAddr was zero in the file, still carries its own 2-byte load
	// address prefix; callers should use LoadAddr for placement either
	// way since File already folds that case in).
	Payload []byte
}

// File is a fully parsed SID file: header plus the memory image it
// describes, ready to load into a CPU.
type File struct {
	Header   Header
	LoadAddr uint16
	Image    []byte // payload bytes, to be placed at LoadAddr
}

// Parse decodes a PSID/RSID byte stream per the v1/v2 layout: magic,
// version, data offset, load/init/play addresses, song count, start song,
// speed flags, and the title/author/released text fields.
func Parse(data []byte) (*File, error) {
	if len(data) < 6 {
		return nil, &convertio.FormatError{Offset: 0, Reason: "file shorter than PSID magic+version"}
	}

	magic := string(data[0:4])
	if magic != magicPSID && magic != magicRSID {
		return nil, &convertio.FormatError{Offset: 0, Reason: "magic is neither PSID nor RSID"}
	}

	h := Header{Magic: magic}
	h.Version = binary.BigEndian.Uint16(data[4:6])
	if h.Version < 1 || h.Version > 4 {
		return nil, &convertio.FormatError{Offset: 4, Reason: "unsupported PSID version"}
	}

	minLen := v1HeaderSize
	if h.Version >= 2 {
		minLen = v2HeaderSize
	}
	if len(data) < minLen {
		return nil, &convertio.FormatError{Offset: len(data), Reason: "header truncated before data offset"}
	}

	h.DataOffset = binary.BigEndian.Uint16(data[6:8])
	h.LoadAddr = binary.BigEndian.Uint16(data[8:10])
	h.InitAddr = binary.BigEndian.Uint16(data[10:12])
	h.PlayAddr = binary.BigEndian.Uint16(data[12:14])
	h.Songs = binary.BigEndian.Uint16(data[14:16])
	h.StartSong = binary.BigEndian.Uint16(data[16:18])
	h.SpeedFlags = binary.BigEndian.Uint32(data[18:22])
	h.Title = readCString(data[22:54])
	h.Author = readCString(data[54:86])
	h.Released = readCString(data[86:118])

	if int(h.DataOffset) > len(data) {
		return nil, &convertio.FormatError{Offset: int(h.DataOffset), Reason: "data offset beyond end of file"}
	}
	h.Payload = data[h.DataOffset:]

	loadAddr := h.LoadAddr
	image := h.Payload
	if loadAddr == 0 {
		if len(h.Payload) < 2 {
			return nil, &convertio.FormatError{Offset: int(h.DataOffset), Reason: "zero load address but payload has no embedded load address"}
		}
		loadAddr = binary.LittleEndian.Uint16(h.Payload[0:2])
		image = h.Payload[2:]
	}

	return &File{Header: h, LoadAddr: loadAddr, Image: image}, nil
}

// WriteOptions controls header emission for Write.
type WriteOptions struct {
	Version   uint16 // defaults to 2
	StartSong uint16 // defaults to 1
}

// Write emits a PSID v1/v2 file: a byte-exact header followed by image
// placed verbatim. loadAddr is written as given and Write adds no
// load-address prefix of its own, so a caller passing loadAddr 0 must put
// the 2-byte little-endian load address at the start of image.
func Write(loadAddr, initAddr, playAddr uint16, songs uint16, title, author, released string, image []byte, opts WriteOptions) []byte {
	version := opts.Version
	if version == 0 {
		version = 2
	}
	startSong := opts.StartSong
	if startSong == 0 {
		startSong = 1
	}

	dataOffset := v1DataOffset
	headerSize := v1HeaderSize
	if version >= 2 {
		dataOffset = v2DataOffset
		headerSize = v2HeaderSize
	}

	buf := make([]byte, headerSize)
	copy(buf[0:4], magicPSID)
	binary.BigEndian.PutUint16(buf[4:6], version)
	binary.BigEndian.PutUint16(buf[6:8], uint16(dataOffset))
	binary.BigEndian.PutUint16(buf[8:10], loadAddr)
	binary.BigEndian.PutUint16(buf[10:12], initAddr)
	binary.BigEndian.PutUint16(buf[12:14], playAddr)
	binary.BigEndian.PutUint16(buf[14:16], songs)
	binary.BigEndian.PutUint16(buf[16:18], startSong)
	// SpeedFlags left zero: every voice driven by the play call, not CIA timers.
	writeCString(buf[22:54], title)
	writeCString(buf[54:86], author)
	writeCString(buf[86:118], released)

	out := make([]byte, 0, len(buf)+len(image))
	out = append(out, buf...)
	out = append(out, image...)
	return out
}

func readCString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

func writeCString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
