package driverwrap

import "sid2sf2/internal/laxity"

// DeinterleaveWaveTable turns Laxity's two parallel 128-entry arrays into
// the contiguous layout the wrapped driver expects: 128 waveform bytes
// followed immediately by 128 note-offset bytes. The note-offsets base
// must equal the waveform base + 128; callers patch any pointer that
// referenced the old layout to point at the new waveform base.
func DeinterleaveWaveTable(wt laxity.WaveTable) []byte {
	out := make([]byte, 256)
	copy(out[0:128], wt.Waveform[:])
	copy(out[128:256], wt.NoteOffset[:])
	return out
}
