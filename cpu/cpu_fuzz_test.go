package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for rv := range 0x10 {
		f.Add(uint16(rv<<12), uint8(0), uint8(0))
		f.Add(uint16(rv<<12)|0x0ff4, uint8(0xff), uint8(0x01))
		f.Add(uint16(rv<<12)|0x0125, uint8(STACK_LIMIT), uint8(0x80))
	}
	f.Add(uint16(CODE_RET), uint8(0), uint8(0))
	f.Add(uint16(CODE_CLS), uint8(3), uint8(0))

	f.Fuzz(func(t *testing.T, opcode uint16, depth uint8, seed uint8) {
		assert := assert.New(t)

		code := Code(opcode)

		cpu := NewCpu()
		cpu.Ip = 0x2a4
		for n := range cpu.Register {
			cpu.Register[n] = seed + uint8(n*17)
		}
		for n := range int(depth) % (STACK_LIMIT + 1) {
			cpu.Stack.Push(uint16(0x100 + n*2))
		}

		prior := *cpu
		err := cpu.Execute(code)

		assert.GreaterOrEqual(cpu.Stack.Pointer, 0)
		assert.LessOrEqual(cpu.Stack.Pointer, STACK_LIMIT)
		assert.Equal(prior.Memory, cpu.Memory)
		assert.Equal(prior.Ticks+1, cpu.Ticks)

		// Only vx and vf may change.
		for n := range cpu.Register {
			if n == int(code.X()) || n == REG_FLAG {
				continue
			}
			assert.Equal(prior.Register[n], cpu.Register[n], "v%x", n)
		}

		switch code.Decode() {
		case OP_HALT:
			assert.ErrorIs(err, ErrHalt)
			assert.Equal(prior.Register, cpu.Register)
		case OP_UNKNOWN:
			assert.ErrorIs(err, ErrOpcodeUnknown)
			var eo ErrOpcode
			assert.True(errors.As(err, &eo))
			assert.Equal(code, Code(eo))
		case OP_RET:
			if prior.Stack.Empty() {
				assert.ErrorIs(err, ErrStackUnderflow)
			} else {
				assert.NoError(err)
				assert.Equal(prior.Stack.Pointer-1, cpu.Stack.Pointer)
			}
		case OP_CALL:
			if prior.Stack.Full() {
				assert.ErrorIs(err, ErrStackOverflow)
				assert.Equal(STACK_LIMIT, cpu.Stack.Pointer)
			} else {
				assert.NoError(err)
				assert.Equal(code.NNN(), cpu.Ip)
				ret, _ := cpu.Stack.Peek()
				assert.Equal(prior.Ip+CODE_SIZE, ret)
			}
		case OP_JP:
			assert.NoError(err)
			assert.Equal(code.NNN(), cpu.Ip)
		case OP_SE_IMM, OP_SNE_IMM, OP_SE_REG, OP_SNE_REG:
			assert.NoError(err)
			assert.Contains([]uint16{prior.Ip + 2, prior.Ip + 4}, cpu.Ip)
			assert.Equal(prior.Register, cpu.Register)
		default:
			assert.NoError(err)
			assert.Equal(prior.Ip+CODE_SIZE, cpu.Ip)
		}
	})
}
