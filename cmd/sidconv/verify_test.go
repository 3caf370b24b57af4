package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sid2sf2/internal/driverwrap"
	"sid2sf2/internal/laxity"
	"sid2sf2/internal/psid"
	"sid2sf2/internal/sf2"
)

func sampleModel() *laxity.Model {
	return &laxity.Model{
		Orderlists: [3]laxity.Orderlist{
			{Entries: []laxity.OrderEntry{{Transpose: 0, SeqAddr: 0x4000}}, Loop: 0},
			{},
			{},
		},
		Sequences: map[uint16][]sf2.Event{
			0x4000: {{Note: 0x3C}},
		},
		Instruments: []laxity.Instrument{
			{AD: 0x1A, SR: 0x2B, WaveSpeed: 1},
		},
	}
}

func TestVerifyRoundtripAgreesWhenPlayerNeverWritesSID(t *testing.T) {
	model := sampleModel()
	code := []byte{0x60, 0x60} // init: RTS, play: RTS — no SID writes either way
	entry := driverwrap.EntryPoints{Init: 0x1000, Play: 0x1001, Stop: 0x1000}

	result, err := driverwrap.Wrap(model, code, 0x1000, entry, nil, nil)
	require.NoError(t, err)

	original := psid.Write(0x1000, 0x1000, 0x1001, 1, "t", "a", "r", code, psid.WriteOptions{})

	compared, agreed, err := verifyRoundtrip(original, result.Image)
	require.NoError(t, err)
	require.Equal(t, verifyFrames, compared)
	require.Equal(t, compared, agreed)
}

func TestConversionReportStringIncludesAgreementWhenVerified(t *testing.T) {
	r := ConversionReport{
		Input: "a.sid", Output: "a.sf2",
		Warnings:         []string{"w1"},
		Verified:         true,
		FramesCompared:   200,
		FramesAgreed:     200,
		AgreementPercent: 100,
	}
	s := r.String()
	require.Contains(t, s, "a.sid -> a.sf2")
	require.Contains(t, s, "1 warning(s)")
	require.Contains(t, s, "200/200 frames agreed")
}

func TestConversionReportStringOmitsAgreementWhenNotVerified(t *testing.T) {
	r := ConversionReport{Input: "a.sid", Output: "a.sf2"}
	require.NotContains(t, r.String(), "frames agreed")
}
