// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"MEMORY_SIZE": _cpu_defines["MEMORY_SIZE"],
	"STACK_LIMIT": _cpu_defines["STACK_LIMIT"],
	"REG_FLAG":    _cpu_defines["REG_FLAG"],
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass macro assembler for the CHIP-8 instruction set.
// A label binds to the address of the code that follows it, so a label on
// an .org line names the new address.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	ip        int                 // Address of the next generated code.
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	text := word
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrParseNumber(text)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		if len(word) < 3 {
			err = ErrParseCharacter(word)
			return
		}
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	} else {
		err = ErrParseNumber(text)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// registerOf parses a v0-vf register name.
func (asm *Assembler) registerOf(word string) (reg uint8, err error) {
	if len(word) != 2 || (word[0] != 'v' && word[0] != 'V') {
		err = ErrRegisterInvalid
		return
	}

	v, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	reg = uint8(v)
	return
}

// isRegister returns true if the word names a register.
func (asm *Assembler) isRegister(word string) bool {
	_, err := asm.registerOf(word)
	return err == nil
}

// immediateOf parses an 8-bit immediate. Small negative values are
// encoded as two's complement.
func (asm *Assembler) immediateOf(word string) (kk uint8, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value > 0xff && value < 0xffffff80 {
		err = ErrImmediateRange
		return
	}

	kk = uint8(value)
	return
}

// addressOf parses a 12-bit address, or returns the label to link.
func (asm *Assembler) addressOf(word string) (nnn uint16, label string, err error) {
	value, err := asm.valueOf(word)
	if _, ok := err.(ErrParseNumber); ok {
		// Not a number, so it must be a label.
		err = nil
		label = word
		return
	}
	if err != nil {
		return
	}

	if value > 0xfff {
		err = ErrAddressRange
		return
	}

	nnn = uint16(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	for key, ip := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(ip)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	var labels []string
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		labels = append(labels, words[0][:len(words[0])-1])
		words = words[1:]
	}

	// Labels on an .org line name the new address.
	if len(words) > 0 && words[0] == ".org" {
		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
		words = nil
	}

	for _, label := range labels {
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
	}

	if len(words) == 0 {
		return
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Labels prefixed with '@' are unique to this expansion.
		unique := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", unique)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the address of the next generated code.
func (asm *Assembler) currentIp() int {
	return asm.ip
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.ip = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		ip, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if ip > 0xfff {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrAddressRange
			return
		}
		linked := &op.Codes[len(op.Codes)-1]
		*linked = MakeCodeAddr(linked.Class(), uint16(ip))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseRegImm parses a 'vx kk' or 'vx vy' argument pair.
func (asm *Assembler) parseRegImm(words []string) (x uint8, y uint8, kk uint8, is_reg bool, err error) {
	if len(words) < 2 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	x, err = asm.registerOf(words[0])
	if err != nil {
		return
	}

	if asm.isRegister(words[1]) {
		is_reg = true
		y, err = asm.registerOf(words[1])
		return
	}

	kk, err = asm.immediateOf(words[1])
	return
}

// aluMap maps register to register ALU opcode names.
var aluMap = map[string]uint8{
	"or":  ALU_OR,
	"and": ALU_AND,
	"xor": ALU_XOR,
	"sub": ALU_SUB,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		end := asm.currentIp() + len(codes)*CODE_SIZE
		if end > MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
		asm.ip = end
	}()

	// Alternate syntax substitutions
	switch {
	case len(words) == 1 && words[0] == "return":
		words = []string{"ret"}
	case len(words) == 1 && words[0] == "exit":
		words = []string{"halt"}
	case len(words) >= 1 && words[0] == "jump":
		words = append([]string{"jp"}, words[1:]...)
	default:
		// unchanged
	}

	args := words[1:]

	switch words[0] {
	case ".org":
		if len(args) != 1 {
			err = ErrOrgSyntax
			return
		}
		var value uint32
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if value > MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		if int(value) < asm.currentIp() {
			err = ErrOrgBackwards
			return
		}
		asm.ip = int(value)
	case ".word":
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, arg := range args {
			var value uint32
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			if value > 0xffff {
				err = ErrImmediateRange
				return
			}
			codes = append(codes, Code(value))
		}
	case "halt", "cls", "ret":
		if len(args) > 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		code := map[string]Code{"halt": CODE_HALT, "cls": CODE_CLS, "ret": CODE_RET}[words[0]]
		codes = append(codes, code)
	case "jp", "call":
		if len(args) < 1 {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		class := CLASS_JP
		if words[0] == "call" {
			class = CLASS_CALL
		}
		var nnn uint16
		nnn, label, err = asm.addressOf(args[0])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeAddr(class, nnn))
	case "se", "sne", "ld", "add":
		var x, y, kk uint8
		var is_reg bool
		x, y, kk, is_reg, err = asm.parseRegImm(args)
		if err != nil {
			return
		}
		var code Code
		switch {
		case words[0] == "se" && is_reg:
			code = MakeCodeReg(CLASS_SE_REG, x, y, 0)
		case words[0] == "se":
			code = MakeCodeImm(CLASS_SE_IMM, x, kk)
		case words[0] == "sne" && is_reg:
			code = MakeCodeReg(CLASS_SNE_REG, x, y, 0)
		case words[0] == "sne":
			code = MakeCodeImm(CLASS_SNE_IMM, x, kk)
		case words[0] == "ld" && is_reg:
			code = MakeCodeReg(CLASS_ALU, x, y, ALU_LD)
		case words[0] == "ld":
			code = MakeCodeImm(CLASS_LD_IMM, x, kk)
		case words[0] == "add" && is_reg:
			code = MakeCodeReg(CLASS_ALU, x, y, ALU_ADD)
		default:
			code = MakeCodeImm(CLASS_ADD_IMM, x, kk)
		}
		codes = append(codes, code)
	case "or", "and", "xor", "sub":
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var x, y uint8
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		y, err = asm.registerOf(args[1])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeReg(CLASS_ALU, x, y, aluMap[words[0]]))
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}
