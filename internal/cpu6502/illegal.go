package cpu6502

// stepIllegal handles the subset of undocumented opcodes SID players
// routinely depend on: LAX (load A and X together) and the various
// multi-byte NOP forms used as padding or timing filler. It reports
// whether it recognized the opcode; StepOne falls through to
// UnknownOpcodeError for everything else, including the true KIL/JAM
// opcodes that halt a real 6502.
func (c *CPU) stepIllegal(opcode byte) bool {
	switch opcode {
	// ---- LAX: LDA+LDX in one op ----
	case 0xA7: // LAX zp
		v := c.Read(c.addrZP())
		c.A, c.X = v, v
		c.setNZ(v)
		c.Cycles += 3
	case 0xB7: // LAX zp,Y
		v := c.Read(c.addrZPY())
		c.A, c.X = v, v
		c.setNZ(v)
		c.Cycles += 4
	case 0xAF: // LAX abs
		v := c.Read(c.addrAbs())
		c.A, c.X = v, v
		c.setNZ(v)
		c.Cycles += 4
	case 0xBF: // LAX abs,Y
		addr, crossed := c.addrAbsY()
		v := c.Read(addr)
		c.A, c.X = v, v
		c.setNZ(v)
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}
	case 0xA3: // LAX (zp,X)
		v := c.Read(c.addrIndX())
		c.A, c.X = v, v
		c.setNZ(v)
		c.Cycles += 6
	case 0xB3: // LAX (zp),Y
		addr, crossed := c.addrIndY()
		v := c.Read(addr)
		c.A, c.X = v, v
		c.setNZ(v)
		c.Cycles += 5
		if crossed {
			c.Cycles++
		}

	// ---- SAX: store A&X ----
	case 0x87:
		c.Write(c.addrZP(), c.A&c.X)
		c.Cycles += 3
	case 0x97:
		c.Write(c.addrZPY(), c.A&c.X)
		c.Cycles += 4
	case 0x8F:
		c.Write(c.addrAbs(), c.A&c.X)
		c.Cycles += 4
	case 0x83:
		c.Write(c.addrIndX(), c.A&c.X)
		c.Cycles += 6

	// ---- single-byte NOP variants ----
	case 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		c.Cycles += 2

	// ---- two-byte NOP (immediate operand, discarded) ----
	case 0x80, 0x82, 0x89, 0xC2, 0xE2:
		c.PC++
		c.Cycles += 2

	// ---- two-byte NOP (zero page operand, discarded) ----
	case 0x04, 0x44, 0x64:
		c.addrZP()
		c.Cycles += 3
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		c.addrZPX()
		c.Cycles += 4

	// ---- three-byte NOP (absolute / absolute,X operand, discarded) ----
	case 0x0C:
		c.addrAbs()
		c.Cycles += 4
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		_, crossed := c.addrAbsX()
		c.Cycles += 4
		if crossed {
			c.Cycles++
		}

	default:
		return false
	}
	return true
}
