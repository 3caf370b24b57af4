package cliutil

import "sid2sf2/internal/psid"

// LoadImage places a parsed PSID file's payload into a fresh 64KB memory
// array at its load address, ready for the CPU emulator or the Laxity
// extractor to read directly.
func LoadImage(f *psid.File) *[65536]byte {
	var mem [65536]byte
	copy(mem[int(f.LoadAddr):], f.Image)
	return &mem
}
