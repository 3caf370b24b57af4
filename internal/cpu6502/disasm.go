package cpu6502

// InstrLength returns the byte length of the instruction at opcode (1, 2,
// or 3), and whether bytes [1:3) hold an absolute 16-bit operand that a
// relocator might need to adjust. Indirect JMP ($6C) counts as an
// absolute-operand instruction too: its operand is the address of the
// pointer, which relocation must also treat as a potential patch site.
func InstrLength(opcode byte) (length int, hasAbsOperand bool) {
	switch opcode {
	// implied / accumulator — 1 byte
	case 0x00, 0x08, 0x0A, 0x18, 0x28, 0x2A, 0x38, 0x40, 0x48, 0x4A, 0x58,
		0x60, 0x68, 0x6A, 0x78, 0x88, 0x8A, 0x98, 0x9A, 0xA8, 0xAA, 0xB8,
		0xBA, 0xC8, 0xCA, 0xD8, 0xE8, 0xEA, 0xF8,
		0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		return 1, false

	// immediate / zero-page / (zp,X) / (zp),Y / relative — 2 bytes
	case 0x69, 0xE9, 0x29, 0x09, 0x49, 0xC9, 0xE0, 0xC0, 0xA9, 0xA2, 0xA0,
		0x65, 0x75, 0xE5, 0xF5, 0x25, 0x35, 0x05, 0x15, 0x45, 0x55, 0xC5,
		0xD5, 0xE4, 0xC4, 0xA5, 0xB5, 0xA6, 0xB6, 0xA4, 0xB4, 0x85, 0x95,
		0x86, 0x96, 0x84, 0x94, 0x06, 0x16, 0x46, 0x56, 0x26, 0x36, 0x66,
		0x76, 0xE6, 0xF6, 0xC6, 0xD6, 0x24, 0x61, 0x71, 0x81, 0x91, 0x21,
		0x31, 0x41, 0x51, 0xC1, 0xD1, 0xA1, 0xB1,
		0x10, 0x30, 0x50, 0x70, 0x90, 0xB0, 0xD0, 0xF0,
		0xA7, 0xB7, 0x87, 0x97, 0xA3, 0xB3, 0x83,
		0x80, 0x82, 0x89, 0xC2, 0xE2, 0x04, 0x44, 0x64, 0x14, 0x34, 0x54,
		0x74, 0xD4, 0xF4:
		return 2, false

	// absolute / absolute,X / absolute,Y / indirect — 3 bytes, 16-bit operand
	case 0x4C, 0x6C, 0x20,
		0x6D, 0x7D, 0x79, 0xED, 0xFD, 0xF9, 0x2D, 0x3D, 0x39, 0x0D, 0x1D,
		0x19, 0x4D, 0x5D, 0x59, 0xCD, 0xDD, 0xD9, 0xEC, 0xCC, 0xAD, 0xBD,
		0xB9, 0xAE, 0xBE, 0xAC, 0xBC, 0x8D, 0x9D, 0x99, 0x8E, 0x8C, 0x0E,
		0x1E, 0x4E, 0x5E, 0x2E, 0x3E, 0x6E, 0x7E, 0xEE, 0xFE, 0xCE, 0xDE,
		0x2C, 0xAF, 0xBF, 0x8F, 0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		return 3, true

	default:
		return 1, false
	}
}
