package cpu6502

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndImmediateOps(t *testing.T) {
	c := New()
	c.Load(0x1000, []byte{
		0xA9, 0x7F, // LDA #$7F
		0x69, 0x01, // ADC #$01
	})
	c.PC = 0x1000

	require.NoError(t, c.StepOne())
	require.Equal(t, byte(0x7F), c.A)

	require.NoError(t, c.StepOne())
	require.Equal(t, byte(0x80), c.A)
	require.True(t, c.P&FlagN != 0, "bit 7 set should raise N")
	require.True(t, c.P&FlagV != 0, "0x7F+1 overflows into negative")
}

func TestDecimalModeADC(t *testing.T) {
	c := New()
	c.P |= FlagD
	c.A = 0x58
	c.adc(0x46) // 58 + 46 BCD = 104 -> carry set, A = 0x04
	require.Equal(t, byte(0x04), c.A)
	require.True(t, c.P&FlagC != 0)
}

func TestDecimalModeSBC(t *testing.T) {
	c := New()
	c.P |= FlagD | FlagC
	c.A = 0x12
	c.sbc(0x09) // 12 - 09 BCD = 03
	require.Equal(t, byte(0x03), c.A)
	require.True(t, c.P&FlagC != 0)
}

func TestPageCrossingAddsCycle(t *testing.T) {
	c := New()
	c.Load(0x1000, []byte{0xBD, 0xFF, 0x10}) // LDA $10FF,X
	c.Mem[0x1100] = 0x42
	c.X = 1
	c.PC = 0x1000

	require.NoError(t, c.StepOne())
	require.Equal(t, byte(0x42), c.A)
	require.Equal(t, uint64(5), c.Cycles)
}

func TestJSRAndRTSRoundTrip(t *testing.T) {
	c := New()
	c.Load(0x1000, []byte{0x20, 0x00, 0x20}) // JSR $2000
	c.Load(0x2000, []byte{0x60})             // RTS
	c.PC = 0x1000

	require.NoError(t, c.StepOne()) // JSR
	require.Equal(t, uint16(0x2000), c.PC)

	require.NoError(t, c.StepOne()) // RTS
	require.Equal(t, uint16(0x1003), c.PC)
}

func TestCallSubroutineReturns(t *testing.T) {
	c := New()
	c.Load(0x1000, []byte{
		0x8D, 0x00, 0xD4, // STA $D400
		0x60, // RTS
	})

	var captured []byte
	c.OnWrite = func(addr uint16, value byte) {
		if addr == 0xD400 {
			captured = append(captured, value)
		}
	}

	err := c.CallSubroutine(0x1000, 0x33)
	require.NoError(t, err)
	require.Equal(t, []byte{0x33}, captured)
}

func TestCallSubroutineBudgetExhausted(t *testing.T) {
	c := New()
	c.Budget = 10
	c.Load(0x1000, []byte{0x4C, 0x00, 0x10}) // JMP $1000, infinite loop

	err := c.CallSubroutine(0x1000, 0)
	require.Error(t, err)
	var budgetErr *BudgetExhaustedError
	require.ErrorAs(t, err, &budgetErr)
}

func TestUnknownOpcode(t *testing.T) {
	c := New()
	c.Load(0x1000, []byte{0x02}) // KIL/JAM, not implemented
	c.PC = 0x1000

	err := c.StepOne()
	require.Error(t, err)
	var unkErr *UnknownOpcodeError
	require.ErrorAs(t, err, &unkErr)
	require.Equal(t, byte(0x02), unkErr.Opcode)
}

func TestLAXLoadsBothRegisters(t *testing.T) {
	c := New()
	c.Load(0x1000, []byte{0xA7, 0x10}) // LAX $10
	c.Mem[0x0010] = 0x99
	c.PC = 0x1000

	require.NoError(t, c.StepOne())
	require.Equal(t, byte(0x99), c.A)
	require.Equal(t, byte(0x99), c.X)
	require.True(t, c.P&FlagN != 0)
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c := New()
	c.Load(0x1000, []byte{0x6C, 0xFF, 0x20}) // JMP ($20FF)
	c.Mem[0x20FF] = 0x34
	c.Mem[0x2000] = 0x12 // NMOS bug: high byte read wraps within the page, not $2100
	c.PC = 0x1000

	require.NoError(t, c.StepOne())
	require.Equal(t, uint16(0x1234), c.PC)
}

func TestRasterWorkaroundAdvances(t *testing.T) {
	c := New()
	first := c.Read(0xD012)
	second := c.Read(0xD012)
	require.NotEqual(t, first, second)
}
