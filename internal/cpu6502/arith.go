package cpu6502

// adc implements ADC including NMOS decimal-mode behavior: the binary result
// determines N/Z/V exactly as in binary mode, but when D is set the final
// accumulator value and carry are corrected to BCD. No BCD shortcuts: the
// correction follows the same nibble-carry steps real NMOS 6502s perform.
func (c *CPU) adc(v byte) {
	carryIn := uint16(0)
	if c.P&FlagC != 0 {
		carryIn = 1
	}

	if c.P&FlagD == 0 {
		sum := uint16(c.A) + uint16(v) + carryIn
		c.setC(sum > 0xFF)
		c.setV((c.A ^ byte(sum)) & (v ^ byte(sum)) & 0x80)
		c.A = byte(sum)
		c.setNZ(c.A)
		return
	}

	lo := uint16(c.A&0x0F) + uint16(v&0x0F) + carryIn
	hi := uint16(c.A>>4) + uint16(v>>4)
	if lo > 9 {
		lo += 6
		hi++
	}
	// N/V/Z are computed from the binary sum per documented NMOS behavior.
	binSum := uint16(c.A) + uint16(v) + carryIn
	c.setN(byte(binSum))
	c.setZ(byte(binSum))
	c.setV((c.A ^ byte(binSum)) & (v ^ byte(binSum)) & 0x80)
	if hi > 9 {
		hi += 6
	}
	c.setC(hi > 15)
	c.A = byte(hi<<4) | byte(lo&0x0F)
}

func (c *CPU) sbc(v byte) {
	carryIn := uint16(0)
	if c.P&FlagC != 0 {
		carryIn = 1
	}

	if c.P&FlagD == 0 {
		c.adc(^v)
		return
	}

	diff := int16(c.A) - int16(v) - int16(1-carryIn)
	binResult := byte(diff)
	c.setN(binResult)
	c.setZ(binResult)
	c.setV((c.A ^ v) & (c.A ^ binResult) & 0x80)
	c.setC(diff >= 0)

	lo := int16(c.A&0x0F) - int16(v&0x0F) - int16(1-carryIn)
	hi := int16(c.A>>4) - int16(v>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	c.A = byte(hi<<4) | byte(lo&0x0F)
}

func (c *CPU) setV(cond byte) {
	if cond != 0 {
		c.P |= FlagV
	} else {
		c.P &^= FlagV
	}
}
