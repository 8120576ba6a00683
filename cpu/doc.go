// Package cpu implements the virtual CPU and assembler for a CHIP-8 style machine.
//
// The CPU consists of an instruction pointer (IP), sixteen 8-bit registers
// (v0-vf, with vf doubling as the carry/borrow flag), 4096 bytes of memory,
// and a sixteen entry call stack. Instructions are 16-bit big-endian words,
// fetched from memory and dispatched on their (class, x, y, d) nibbles.
//
// Execution stops at the all-zero halt word. Stack overflow, stack underflow,
// unimplemented opcodes, and fetches past the end of memory are reported as
// errors carrying the offending opcode or address.
//
// The assembler provides a small assembly language for the instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
