package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int
	Ip        int // Byte address of the first code.
	Words     []string
	Codes     []Code
	LinkLabel string
}

// Program is an assembled instruction listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode covering the byte address ip.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		end := op.Ip + len(op.Codes)*CODE_SIZE
		if int(ip) >= op.Ip && int(ip) < end {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (int(ip) - op.Ip) / CODE_SIZE,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
// Gaps left by .org are zero filled.
func (prog *Program) Binary() (bins []byte) {
	for ip, code := range prog.Codes() {
		end := int(ip) + CODE_SIZE
		if end > len(bins) {
			bins = append(bins, make([]byte, end-len(bins))...)
		}
		bins[ip] = byte(code >> 8)
		bins[ip+1] = byte(code)
	}

	return
}

// Codes iterates over every instruction word and its address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(ip uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			ip := uint16(op.Ip)
			for n, code := range op.Codes {
				if !yield(ip+uint16(n*CODE_SIZE), code) {
					return
				}
			}
		}
	}
}
