// Package midicapture derives a per-voice MIDI note stream from a
// sidplayer frame trace: one track per voice, ticked at 25 ticks/beat,
// 50 frames/second (PAL).
package midicapture

import (
	"math"

	"sid2sf2/internal/sidplayer"
)

const (
	ticksPerBeat  = 25
	framesPerSec  = 50
	gateBit       = 0x01
	referenceFreq = 440.0
	midiA4        = 69
)

// Note is one derived MIDI event: a gate-open interval collapsed to a
// single pitch, start frame, and length.
type Note struct {
	Voice      int
	StartFrame int
	Frames     int
	Pitch      int // 0..127
	Velocity   int // 0..127
}

// Track is one voice's derived note stream plus its tick base.
type Track struct {
	Voice        int
	TicksPerBeat int
	Notes        []Note
}

type openNote struct {
	start     int
	lastFreq  uint16
	attackNib byte
}

// Derive scans a frame trace and produces one Track per voice. Gate-open
// intervals are detected per voice by bit 0 of the control byte; the pitch
// of an interval is computed from the last frequency observed while gated,
// not the first, so legato pitch slides resolve to their final note.
// Velocity comes from the attack nibble of the envelope byte sampled at
// gate-open.
func Derive(trace []sidplayer.FrameState, clockHz float64) [3]Track {
	var tracks [3]Track
	for v := 0; v < 3; v++ {
		tracks[v] = Track{Voice: v, TicksPerBeat: ticksPerBeat}
	}

	var open [3]*openNote

	for frame, fs := range trace {
		for v := 0; v < 3; v++ {
			voice := fs.Voices[v]
			gated := voice.Control&gateBit != 0

			switch {
			case gated && open[v] == nil:
				open[v] = &openNote{
					start:     frame,
					lastFreq:  voice.Frequency,
					attackNib: byte(voice.Envelope >> 12),
				}
			case gated && open[v] != nil:
				open[v].lastFreq = voice.Frequency
			case !gated && open[v] != nil:
				tracks[v].Notes = append(tracks[v].Notes, closeNote(v, open[v], frame, clockHz))
				open[v] = nil
			}
		}
	}

	// Any interval still open at the end of the trace closes at the last frame.
	for v := 0; v < 3; v++ {
		if open[v] != nil {
			tracks[v].Notes = append(tracks[v].Notes, closeNote(v, open[v], len(trace), clockHz))
		}
	}

	return tracks
}

func closeNote(voice int, o *openNote, end int, clockHz float64) Note {
	return Note{
		Voice:      voice,
		StartFrame: o.start,
		Frames:     end - o.start,
		Pitch:      frequencyToMIDI(o.lastFreq, clockHz),
		Velocity:   velocityFromAttack(o.attackNib),
	}
}

// frequencyToMIDI converts a SID 16-bit frequency register value to a
// clamped MIDI note number using the standard SID frequency formula:
// freq_hz = register * clockHz / 2^24.
func frequencyToMIDI(reg uint16, clockHz float64) int {
	if reg == 0 {
		return 0
	}
	hz := float64(reg) * clockHz / 16777216.0
	note := int(math.Round(12*math.Log2(hz/referenceFreq) + midiA4))
	if note < 0 {
		return 0
	}
	if note > 127 {
		return 127
	}
	return note
}

// velocityFromAttack maps the ADSR attack nibble to a MIDI velocity.
func velocityFromAttack(attack byte) int {
	v := 64 + int(attack)*4
	if v < 64 {
		return 64
	}
	if v > 127 {
		return 127
	}
	return v
}
