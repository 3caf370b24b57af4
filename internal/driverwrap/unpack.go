package driverwrap

import (
	"sid2sf2/internal/convertio"
	"sid2sf2/internal/psid"
	"sid2sf2/internal/sf2"
)

// UnpackOptions carries the metadata fields a PSID header needs that an
// SF2 image has no place for.
type UnpackOptions struct {
	Title, Author, Released string
	Version                 uint16 // 1 or 2; 0 defaults to 2
	StartSong               uint16
}

// Unpack reverses Wrap: given a parsed SF2 image, it locates the live
// extent of the music data actually referenced by the orderlists, slices
// that range out of the image verbatim (the wrapped player and its tables
// are already self-contained at their fixed addresses, so no relocation
// is needed unless the caller wants a different load address — see
// Relocate for that), and emits a playable PSID.
func Unpack(f *sf2.File, opts UnpackOptions) ([]byte, error) {
	highest := -1
	for i := 0; i < int(f.Music.TrackCount); i++ {
		used, err := usedSequenceIndices(f, f.Music.OrderlistAddr(i))
		if err != nil {
			return nil, err
		}
		for _, idx := range used {
			if idx > highest {
				highest = idx
			}
		}
	}
	if highest < 0 {
		return nil, &convertio.ExtractionError{Table: "orderlist", Reason: "no track references any sequence"}
	}

	end := int(f.Music.Sequence0Addr) + (highest+1)*int(f.Music.SequenceSize)
	limit := int(f.LoadAddr) + len(f.Image)
	if end > limit {
		end = limit
	}

	payload := f.Bytes(f.LoadAddr, end-int(f.LoadAddr))
	if payload == nil {
		return nil, &convertio.ExtractionError{Table: "music data", Reason: "computed extent runs outside the image"}
	}

	version := opts.Version
	if version == 0 {
		version = 2
	}
	startSong := opts.StartSong
	if startSong == 0 {
		startSong = 1
	}

	out := psid.Write(f.LoadAddr, f.Common.InitAddr, f.Common.UpdateAddr, 1,
		opts.Title, opts.Author, opts.Released, payload,
		psid.WriteOptions{Version: version, StartSong: startSong})
	return out, nil
}

// usedSequenceIndices decodes one orderlist's packed (transpose,
// sequence-address) entries and converts each address to a sequence
// index relative to the MusicData header's stride addressing.
func usedSequenceIndices(f *sf2.File, addr uint16) ([]int, error) {
	data := f.Bytes(addr, OrderlistStride)
	if data == nil {
		return nil, &convertio.ExtractionError{Table: "orderlist", Reason: "orderlist address outside image"}
	}

	var indices []int
	off := 0
	for off < len(data) {
		transpose := data[off]
		if transpose == 0xFF {
			return indices, nil
		}
		if off+2 >= len(data) {
			return nil, &convertio.ExtractionError{Table: "orderlist", Reason: "ran off the end of its slot before a terminator"}
		}
		seqAddr := uint16(data[off+1]) | uint16(data[off+2])<<8
		if f.Music.SequenceSize == 0 {
			return nil, &convertio.ExtractionError{Table: "orderlist", Reason: "music data has zero sequence stride"}
		}
		idx := int(seqAddr-f.Music.Sequence0Addr) / int(f.Music.SequenceSize)
		indices = append(indices, idx)
		off += 3
	}
	return nil, &convertio.ExtractionError{Table: "orderlist", Reason: "missing 0xFF terminator within its slot"}
}
