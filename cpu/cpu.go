package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	MEMORY_SIZE    = 4096 // Bytes of addressable memory.
	REGISTER_COUNT = 16   // General purpose registers, v0 to vf.
	REG_FLAG       = 0xf  // Carry/borrow flag register.
	CODE_SIZE      = 2    // Bytes per instruction word.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"STACK_LIMIT": fmt.Sprintf("%v", STACK_LIMIT),
	"REG_FLAG":    fmt.Sprintf("v%x", REG_FLAG),
}

// Cpu is the simulation context for the virtual CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Ip       uint16                // Address of the next instruction to fetch.
	Register [REGISTER_COUNT]uint8 // Register bank; vf doubles as the flag.
	Memory   [MEMORY_SIZE]byte     // Addressable memory.
	Stack    Stack                 // Call stack.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU with cleared state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "ip", cpu.Ip)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%x", n), val)
	}

	strval := "---"
	if val, ok := cpu.Stack.Peek(); ok {
		strval = fmt.Sprintf("%03X", val)
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", strval)
	text += fmt.Sprintf("% 5s: %v\n", "sp", cpu.Stack.Pointer)

	return
}

// Reset the CPU state.
// - Clears the registers, memory and stack.
// - Zeros the tick counter.
// - Sets the instruction pointer to origin.
func (cpu *Cpu) Reset(origin uint16) {
	if cpu.Verbose {
		log.Printf("cpu: reset to %03x", origin)
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Stack.Reset()
	cpu.Ticks = 0
	cpu.Ip = origin
}

// Load copies a program image into memory at addr.
func (cpu *Cpu) Load(addr uint16, data []byte) (err error) {
	if int(addr)+len(data) > len(cpu.Memory) {
		err = ErrImageRange
		return
	}

	copy(cpu.Memory[addr:], data)

	if cpu.Verbose {
		log.Printf("cpu: loaded %v bytes at %03x", len(data), addr)
	}

	return
}

// FetchCode reads the big-endian instruction word at the instruction pointer.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	ip := int(cpu.Ip)
	if ip+1 >= len(cpu.Memory) {
		err = ErrIpRange
		return
	}

	code = Code(uint16(cpu.Memory[ip])<<8 | uint16(cpu.Memory[ip+1]))

	return
}

// Tick executes a single CPU instruction cycle.
// Returns ErrHalt when the halt instruction is executed.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		err = errors.Join(ErrAddress(cpu.Ip), err)
		return
	}

	err = cpu.Execute(code)

	return
}

// Run ticks the CPU until it halts or fails.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrHalt) {
			return nil
		}
		if err != nil {
			return
		}
	}
}

// Execute executes a single instruction word. The instruction pointer is
// advanced past the word before the instruction takes effect.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil && err != ErrHalt {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Ip, code)
	}

	cpu.Ip += CODE_SIZE
	cpu.Ticks++

	op := code.Decode()
	x, y, kk, nnn := code.X(), code.Y(), code.KK(), code.NNN()
	reg := &cpu.Register

	switch op {
	case OP_HALT:
		err = ErrHalt
	case OP_CLS:
		// No display attached.
	case OP_RET:
		addr, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackUnderflow
			return
		}
		cpu.Ip = addr
	case OP_JP:
		cpu.Ip = nnn
	case OP_CALL:
		if !cpu.Stack.Push(cpu.Ip) {
			err = ErrStackOverflow
			return
		}
		cpu.Ip = nnn
	case OP_SE_IMM:
		cpu.skipIf(reg[x] == kk)
	case OP_SNE_IMM:
		cpu.skipIf(reg[x] != kk)
	case OP_SE_REG:
		cpu.skipIf(reg[x] == reg[y])
	case OP_SNE_REG:
		cpu.skipIf(reg[x] != reg[y])
	case OP_LD_IMM:
		reg[x] = kk
	case OP_ADD_IMM:
		reg[x] += kk
	case OP_LD_REG:
		reg[x] = reg[y]
	case OP_OR:
		reg[x] |= reg[y]
	case OP_AND:
		reg[x] &= reg[y]
	case OP_XOR:
		reg[x] ^= reg[y]
	case OP_ADD_REG:
		sum := uint16(reg[x]) + uint16(reg[y])
		reg[x] = uint8(sum)
		reg[REG_FLAG] = flag(sum > 0xff)
	case OP_SUB_REG:
		// vf is 1 when there was no borrow.
		borrow := reg[x] < reg[y]
		reg[x] -= reg[y]
		reg[REG_FLAG] = flag(!borrow)
	default:
		err = ErrOpcodeUnknown
		return
	}

	return
}

// skipIf advances past the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Ip += CODE_SIZE
	}
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
