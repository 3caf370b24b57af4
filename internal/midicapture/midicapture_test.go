package midicapture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sid2sf2/internal/sidplayer"
)

const palClock = 985248.0

func frame(freq uint16, gated bool, attack byte) sidplayer.FrameState {
	var fs sidplayer.FrameState
	fs.Voices[0].Frequency = freq
	fs.Voices[0].Envelope = uint16(attack) << 12
	if gated {
		fs.Voices[0].Control = 0x41 // triangle + gate
	} else {
		fs.Voices[0].Control = 0x40
	}
	return fs
}

func TestDeriveSingleNoteUsesLastFrequencyWhileGated(t *testing.T) {
	trace := []sidplayer.FrameState{
		frame(1000, true, 4),
		frame(1200, true, 4), // pitch slides up while still gated
		frame(1200, false, 4),
	}

	tracks := Derive(trace, palClock)
	require.Len(t, tracks[0].Notes, 1)

	note := tracks[0].Notes[0]
	require.Equal(t, 0, note.StartFrame)
	require.Equal(t, 2, note.Frames)
	require.Equal(t, frequencyToMIDI(1200, palClock), note.Pitch)
	require.Equal(t, 80, note.Velocity) // 64 + 4*4
}

func TestDeriveCollapsesRepeatedGateAtSamePitch(t *testing.T) {
	trace := []sidplayer.FrameState{
		frame(500, true, 0),
		frame(500, true, 0),
		frame(500, true, 0),
		frame(500, false, 0),
	}
	tracks := Derive(trace, palClock)
	require.Len(t, tracks[0].Notes, 1)
	require.Equal(t, 3, tracks[0].Notes[0].Frames)
}

func TestDeriveShortGatePulse(t *testing.T) {
	trace := []sidplayer.FrameState{
		frame(500, true, 0),
		frame(500, false, 0),
	}
	tracks := Derive(trace, palClock)
	require.Len(t, tracks[0].Notes, 1)
	require.Equal(t, 1, tracks[0].Notes[0].Frames)
}

func TestVelocityClampsToRange(t *testing.T) {
	require.Equal(t, 127, velocityFromAttack(255))
	require.Equal(t, 64, velocityFromAttack(0))
}

func TestFrequencyToMIDIZeroIsZero(t *testing.T) {
	require.Equal(t, 0, frequencyToMIDI(0, palClock))
}
