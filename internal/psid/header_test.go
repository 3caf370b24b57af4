package psid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sid2sf2/internal/convertio"
)

func TestWriteThenParseRoundTrip(t *testing.T) {
	image := []byte{0xA9, 0x00, 0x60}
	raw := Write(0x1000, 0x1000, 0x10A1, 1, "Test Tune", "Someone", "2026 Someone", image, WriteOptions{})

	f, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1000), f.LoadAddr)
	require.Equal(t, uint16(0x1000), f.Header.InitAddr)
	require.Equal(t, uint16(0x10A1), f.Header.PlayAddr)
	require.Equal(t, "Test Tune", f.Header.Title)
	require.Equal(t, image, f.Image)
}

func TestParseRejectsBadMagic(t *testing.T) {
	raw := make([]byte, 0x76)
	copy(raw[0:4], "NOPE")
	_, err := Parse(raw)
	require.Error(t, err)
	var fe *convertio.FormatError
	require.ErrorAs(t, err, &fe)
}

func TestParseZeroLoadAddressUsesEmbedded(t *testing.T) {
	raw := Write(0, 0x1000, 0x10A1, 1, "", "", "", []byte{0x00, 0x10, 0xEA}, WriteOptions{})
	f, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1000), f.LoadAddr)
	require.Equal(t, []byte{0xEA}, f.Image)
}

func TestParseHeaderOnlyFileYieldsEmptyImage(t *testing.T) {
	raw := Write(0x1000, 0x1000, 0x1003, 1, "", "", "", nil, WriteOptions{})
	f, err := Parse(raw)
	require.NoError(t, err)
	require.Empty(t, f.Image)
}
