package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchLiteralSequence(t *testing.T) {
	buf := []byte{0x00, 0xA9, 0x10, 0x8D, 0x00, 0xD4, 0x00}
	sig := Signature{Name: "lda-sta-d400", Tokens: append(B(0xA9, 0x10, 0x8D, 0x00), B(0xD4)...)}

	ok, offset := Match(buf, sig)
	require.True(t, ok)
	require.Equal(t, 1, offset)
}

func TestMatchWithWildcard(t *testing.T) {
	buf := []byte{0xA9, 0x42, 0x8D}
	sig := Signature{Tokens: append(append(B(0xA9), Wildcard()), B(0x8D)...)}

	ok, _ := Match(buf, sig)
	require.True(t, ok)
}

func TestMatchWithDiscontinuity(t *testing.T) {
	// A9 xx ... (gap of unrelated bytes) ... 8D 00 D4
	buf := []byte{0xA9, 0x7F, 0xFF, 0xFF, 0xFF, 0x8D, 0x00, 0xD4}
	tokens := append(B(0xA9), Discontinuity())
	tokens = append(tokens, B(0x8D, 0x00, 0xD4)...)
	sig := Signature{Tokens: tokens}

	ok, offset := Match(buf, sig)
	require.True(t, ok)
	require.Equal(t, 0, offset)
}

func TestMatchNoMatchIsNotAnError(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x02}
	sig := Signature{Tokens: B(0xFF, 0xFE)}

	ok, _ := Match(buf, sig)
	require.False(t, ok)
}

func TestDetectEmptyDatabaseReturnsNoMatch(t *testing.T) {
	found := Detect([]byte{0x00, 0x01}, nil)
	require.Empty(t, found)
}

func TestDetectReportsAllMatchingSignatures(t *testing.T) {
	buf := []byte{0xA9, 0x00, 0x60}
	db := []Signature{
		{Name: "sig1", Player: "PlayerA", Tokens: B(0xA9, 0x00)},
		{Name: "sig2", Player: "PlayerB", Tokens: B(0x60)},
		{Name: "sig3", Player: "PlayerC", Tokens: B(0xFF)},
	}
	found := Detect(buf, db)
	require.Len(t, found, 2)
	require.Equal(t, "PlayerA", found[0].Player)
	require.Equal(t, "PlayerB", found[1].Player)
}
