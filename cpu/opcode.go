package cpu

import (
	"fmt"
)

// CodeClass is the top nibble of an instruction word.
type CodeClass int

const (
	CLASS_SYS     = CodeClass(0x0) // System: halt, cls, ret
	CLASS_JP      = CodeClass(0x1) // Jump
	CLASS_CALL    = CodeClass(0x2) // Call
	CLASS_SE_IMM  = CodeClass(0x3) // Skip if equal to immediate
	CLASS_SNE_IMM = CodeClass(0x4) // Skip if not equal to immediate
	CLASS_SE_REG  = CodeClass(0x5) // Skip if registers equal
	CLASS_LD_IMM  = CodeClass(0x6) // Load immediate
	CLASS_ADD_IMM = CodeClass(0x7) // Add immediate
	CLASS_ALU     = CodeClass(0x8) // Register to register ALU
	CLASS_SNE_REG = CodeClass(0x9) // Skip if registers not equal
)

// ALU sub-opcodes, selected by the low nibble of a CLASS_ALU word.
const (
	ALU_LD  = 0x0
	ALU_OR  = 0x1
	ALU_AND = 0x2
	ALU_XOR = 0x3
	ALU_ADD = 0x4
	ALU_SUB = 0x5
)

// CodeOp is the decoded shape of an instruction word.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_UNKNOWN = CodeOp(iota) // .word
	OP_HALT                   // halt
	OP_CLS                    // cls
	OP_RET                    // ret
	OP_JP                     // jp
	OP_CALL                   // call
	OP_SE_IMM                 // se
	OP_SNE_IMM                // sne
	OP_SE_REG                 // se
	OP_SNE_REG                // sne
	OP_LD_IMM                 // ld
	OP_ADD_IMM                // add
	OP_LD_REG                 // ld
	OP_OR                     // or
	OP_AND                    // and
	OP_XOR                    // xor
	OP_ADD_REG                // add
	OP_SUB_REG                // sub
)

// Code is a single 16-bit instruction word.
type Code uint16

// MakeCodeAddr creates a jump or call to a 12-bit address.
func MakeCodeAddr(class CodeClass, nnn uint16) Code {
	return Code((uint16(class) << 12) | (nnn & 0xfff))
}

// MakeCodeImm creates a register and immediate instruction.
func MakeCodeImm(class CodeClass, x uint8, kk uint8) Code {
	return Code((uint16(class) << 12) | (uint16(x&0xf) << 8) | uint16(kk))
}

// MakeCodeReg creates a register to register instruction.
func MakeCodeReg(class CodeClass, x uint8, y uint8, d uint8) Code {
	return Code((uint16(class) << 12) | (uint16(x&0xf) << 8) | (uint16(y&0xf) << 4) | uint16(d&0xf))
}

// Named system instructions.
const (
	CODE_HALT = Code(0x0000)
	CODE_CLS  = Code(0x00e0)
	CODE_RET  = Code(0x00ee)
)

// Class returns bits 15-12.
func (code Code) Class() CodeClass {
	return CodeClass((code >> 12) & 0xf)
}

// X returns bits 11-8, a register index.
func (code Code) X() uint8 {
	return uint8((code >> 8) & 0xf)
}

// Y returns bits 7-4, a register index.
func (code Code) Y() uint8 {
	return uint8((code >> 4) & 0xf)
}

// D returns bits 3-0, the sub-opcode selector.
func (code Code) D() uint8 {
	return uint8(code & 0xf)
}

// NNN returns the 12-bit address or literal.
func (code Code) NNN() uint16 {
	return uint16(code & 0xfff)
}

// KK returns the 8-bit immediate.
func (code Code) KK() uint8 {
	return uint8(code & 0xff)
}

// Decode returns the instruction shape matched by the (class, x, y, d) tuple.
func (code Code) Decode() CodeOp {
	x, y, d := code.X(), code.Y(), code.D()

	switch code.Class() {
	case CLASS_SYS:
		switch {
		case x == 0 && y == 0x0 && d == 0x0:
			return OP_HALT
		case x == 0 && y == 0xe && d == 0x0:
			return OP_CLS
		case x == 0 && y == 0xe && d == 0xe:
			return OP_RET
		}
	case CLASS_JP:
		return OP_JP
	case CLASS_CALL:
		return OP_CALL
	case CLASS_SE_IMM:
		return OP_SE_IMM
	case CLASS_SNE_IMM:
		return OP_SNE_IMM
	case CLASS_SE_REG:
		if d == 0 {
			return OP_SE_REG
		}
	case CLASS_LD_IMM:
		return OP_LD_IMM
	case CLASS_ADD_IMM:
		return OP_ADD_IMM
	case CLASS_ALU:
		switch d {
		case ALU_LD:
			return OP_LD_REG
		case ALU_OR:
			return OP_OR
		case ALU_AND:
			return OP_AND
		case ALU_XOR:
			return OP_XOR
		case ALU_ADD:
			return OP_ADD_REG
		case ALU_SUB:
			return OP_SUB_REG
		}
	case CLASS_SNE_REG:
		if d == 0 {
			return OP_SNE_REG
		}
	}

	return OP_UNKNOWN
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Decode()

	switch op {
	case OP_HALT, OP_CLS, OP_RET:
		out = op.String()
	case OP_JP, OP_CALL:
		out = fmt.Sprintf("%v 0x%03x", op.String(), code.NNN())
	case OP_SE_IMM, OP_SNE_IMM, OP_LD_IMM, OP_ADD_IMM:
		out = fmt.Sprintf("%v v%x 0x%02x", op.String(), code.X(), code.KK())
	case OP_UNKNOWN:
		out = fmt.Sprintf("%v 0x%04x", op.String(), uint16(code))
	default:
		out = fmt.Sprintf("%v v%x v%x", op.String(), code.X(), code.Y())
	}

	return
}
