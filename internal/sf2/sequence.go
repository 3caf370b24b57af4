package sf2

import "sid2sf2/internal/convertio"

// Note values. Gate-off, sustain, and end are reserved; everything in
// between is a pitch.
const (
	NoteGateOff byte = 0x00
	NotePitchMin byte = 0x01
	NotePitchMax byte = 0x7D
	NoteSustain  byte = 0x7E
	NoteEnd      byte = 0x7F
)

const maxPackedBytes = 255

// Event is one unpacked sequence row: a note, plus whatever
// instrument/command/duration changes accompany it. SetInstrument,
// SetCommand and SetDuration are false when that field carries over
// unchanged from the previous event.
type Event struct {
	SetInstrument bool
	Instrument    byte // 0..31

	SetCommand bool
	Command    byte // 0..63

	SetDuration bool
	Duration    byte // 0..15
	Tie         bool

	Note byte
}

// PackSequence encodes events into the byte stream the SF2 driver reads:
// instrument, command, duration, then note, in that order — the byte order
// of the worked example in the driver's sequence-packing scenario, which
// this package follows over the prose summary elsewhere that lists command
// before instrument; both cannot hold for the same stream, and the worked
// example is the one with a committed, checkable encoding (see DESIGN.md).
// A field byte is emitted only when its value actually differs from the
// last value of that field this call emitted — not merely when the event
// claims to set it, since a caller (or an unpack round-trip) may mark a
// field set with a value unchanged from before. The note is always
// present. The stream is always terminated with 0x7F. Reports a
// ValidationError if the result (including the terminator) would exceed
// 255 bytes.
func PackSequence(events []Event) ([]byte, error) {
	out := make([]byte, 0, len(events)+1)

	var lastInstrument, lastCommand, lastDuration byte
	var lastTie bool
	haveInstrument, haveCommand, haveDuration := false, false, false

	for _, e := range events {
		if e.SetInstrument && (!haveInstrument || e.Instrument != lastInstrument) {
			out = append(out, 0xA0|(e.Instrument&0x1F))
			lastInstrument, haveInstrument = e.Instrument, true
		}
		if e.SetCommand && (!haveCommand || e.Command != lastCommand) {
			out = append(out, 0xC0|(e.Command&0x3F))
			lastCommand, haveCommand = e.Command, true
		}
		if e.SetDuration && (!haveDuration || e.Duration != lastDuration || e.Tie != lastTie) {
			b := byte(0x80) | (e.Duration & 0x0F)
			if e.Tie {
				b |= 0x10
			}
			out = append(out, b)
			lastDuration, lastTie, haveDuration = e.Duration, e.Tie, true
		}
		out = append(out, e.Note)
	}
	out = append(out, NoteEnd)

	if len(out) > maxPackedBytes {
		return nil, &convertio.ValidationError{Subject: "sequence", Reason: "packed length exceeds 255 bytes"}
	}
	return out, nil
}

// UnpackSequence decodes a packed byte stream starting at data[0] until the
// 0x7F terminator. SetInstrument/SetCommand/SetDuration/Tie are only true
// for events that actually carried that byte; callers track "current"
// instrument/command/duration themselves if they need the effective value
// at every row. Returns a ValidationError if no terminator is found within
// maxPackedBytes.
func UnpackSequence(data []byte) ([]Event, error) {
	var events []Event
	var pending Event
	havePending := false

	i := 0
	for {
		if i >= len(data) || i >= maxPackedBytes {
			return nil, &convertio.ValidationError{Subject: "sequence", Reason: "missing 0x7F terminator within 255 bytes"}
		}
		b := data[i]
		i++

		switch {
		case b == NoteEnd:
			if havePending {
				events = append(events, pending)
			}
			return events, nil
		case b >= 0xC0:
			if !havePending {
				pending = Event{}
				havePending = true
			}
			pending.SetCommand = true
			pending.Command = b & 0x3F
		case b >= 0xA0:
			if !havePending {
				pending = Event{}
				havePending = true
			}
			pending.SetInstrument = true
			pending.Instrument = b & 0x1F
		case b >= 0x80:
			if !havePending {
				pending = Event{}
				havePending = true
			}
			pending.SetDuration = true
			pending.Duration = b & 0x0F
			pending.Tie = b&0x10 != 0
		default:
			if !havePending {
				pending = Event{}
				havePending = true
			}
			pending.Note = b
			events = append(events, pending)
			pending = Event{}
			havePending = false
		}
	}
}

// ExpandSustains turns an unpacked sequence into one note byte per row:
// each event contributes its note followed by duration-1 NoteSustain rows,
// using the most recent duration set (1 until one is). Only notes are
// returned; instrument and command changes are not carried into the rows.
// "Duration" is thus a run length, not a single tick.
func ExpandSustains(events []Event) []byte {
	var rows []byte
	duration := byte(1)
	for _, e := range events {
		if e.SetDuration {
			duration = e.Duration
		}
		rows = append(rows, e.Note)
		for i := byte(1); i < duration; i++ {
			rows = append(rows, NoteSustain)
		}
	}
	return rows
}
