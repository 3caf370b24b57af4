package cliutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sid2sf2/internal/psid"
)

func TestLoadImagePlacesPayloadAtLoadAddress(t *testing.T) {
	payload := []byte{0xA9, 0x00, 0x60}
	data := psid.Write(0x1000, 0x1000, 0x1000, 1, "t", "a", "r", payload, psid.WriteOptions{})

	f, err := psid.Parse(data)
	require.NoError(t, err)

	mem := LoadImage(f)
	require.Equal(t, payload, mem[0x1000:0x1003])
}

func TestLoadImageLeavesRestOfMemoryZero(t *testing.T) {
	payload := []byte{0x01, 0x02}
	data := psid.Write(0x2000, 0x2000, 0x2000, 1, "t", "a", "r", payload, psid.WriteOptions{})

	f, err := psid.Parse(data)
	require.NoError(t, err)

	mem := LoadImage(f)
	require.Equal(t, byte(0), mem[0x0000])
	require.Equal(t, byte(0), mem[0x2002])
}
