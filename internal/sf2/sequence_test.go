package sf2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackSequenceMatchesKnownEncoding(t *testing.T) {
	events := []Event{
		{SetInstrument: true, Instrument: 0, SetCommand: true, Command: 1, SetDuration: true, Duration: 1, Note: 0x3C},
		{SetDuration: true, Duration: 1, Note: 0x3D},
		{SetDuration: true, Duration: 1, Note: 0x3E},
		{SetCommand: true, Command: 2, SetDuration: true, Duration: 1, Note: 0x3F},
	}

	packed, err := PackSequence(events)
	require.NoError(t, err)
	require.Equal(t, []byte{0xA0, 0xC1, 0x81, 0x3C, 0x3D, 0x3E, 0xC2, 0x3F, 0x7F}, packed)
}

func TestUnpackThenRepackIsStable(t *testing.T) {
	packed := []byte{0xA0, 0xC1, 0x81, 0x3C, 0x3D, 0x3E, 0xC2, 0x3F, 0x7F}

	events, err := UnpackSequence(packed)
	require.NoError(t, err)

	repacked, err := PackSequence(events)
	require.NoError(t, err)
	require.Equal(t, packed, repacked)
}

func TestPackSequenceRejectsOversizedStream(t *testing.T) {
	events := make([]Event, 260)
	for i := range events {
		events[i] = Event{Note: 0x3C}
	}
	_, err := PackSequence(events)
	require.Error(t, err)
}

func TestUnpackSequenceRejectsMissingTerminator(t *testing.T) {
	_, err := UnpackSequence([]byte{0x3C, 0x3D, 0x3E})
	require.Error(t, err)
}

func TestExpandSustainsRepeatsNoteForDuration(t *testing.T) {
	events := []Event{
		{SetDuration: true, Duration: 3, Note: 0x3C},
	}
	rows := ExpandSustains(events)
	require.Equal(t, []byte{0x3C, NoteSustain, NoteSustain}, rows)
}
