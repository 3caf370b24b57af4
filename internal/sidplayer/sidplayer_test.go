package sidplayer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sid2sf2/internal/psid"
)

func assembleTune() []byte {
	// init: LDA #$00 ; STA $D418 ; RTS
	// play: LDA #$2A ; STA $D400 ; LDA #$11 ; STA $D404 ; RTS
	image := []byte{
		0xA9, 0x00, 0x8D, 0x18, 0xD4, 0x60, // init at load+0
		0xA9, 0x2A, 0x8D, 0x00, 0xD4, 0xA9, 0x11, 0x8D, 0x04, 0xD4, 0x60, // play at load+6
	}
	return psid.Write(0x1000, 0x1000, 0x1006, 1, "t", "a", "r", image, psid.WriteOptions{})
}

func TestInitAndRunFrames(t *testing.T) {
	h := New()
	require.NoError(t, h.Init(assembleTune(), 1))

	trace, err := h.RunFrames(3)
	require.NoError(t, err)
	require.Len(t, trace, 3)

	for _, frame := range trace {
		require.Equal(t, uint16(0x2A), frame.Voices[0].Frequency&0xFF)
		require.Equal(t, byte(0x11), frame.Voices[0].Control)
	}
}

func TestRunFramesRepeatsDeterministicPlayOutput(t *testing.T) {
	h := New()
	require.NoError(t, h.Init(assembleTune(), 1))

	trace, err := h.RunFrames(5)
	require.NoError(t, err)
	require.Len(t, trace, 5)
	for i := range trace {
		require.Equal(t, trace[0], trace[i], "play routine is deterministic; every frame should match")
	}
}
