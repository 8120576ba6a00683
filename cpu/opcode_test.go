package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Fields(t *testing.T) {
	assert := assert.New(t)

	code := Code(0x8ab4)
	assert.Equal(CLASS_ALU, code.Class())
	assert.Equal(uint8(0xa), code.X())
	assert.Equal(uint8(0xb), code.Y())
	assert.Equal(uint8(0x4), code.D())
	assert.Equal(uint16(0xab4), code.NNN())
	assert.Equal(uint8(0xb4), code.KK())
}

func TestCode_Make(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(0x2100), MakeCodeAddr(CLASS_CALL, 0x100))
	assert.Equal(Code(0x1fff), MakeCodeAddr(CLASS_JP, 0xffff))
	assert.Equal(Code(0x6a42), MakeCodeImm(CLASS_LD_IMM, 0xa, 0x42))
	assert.Equal(Code(0x8125), MakeCodeReg(CLASS_ALU, 1, 2, ALU_SUB))
	assert.Equal(Code(0x5120), MakeCodeReg(CLASS_SE_REG, 1, 2, 0))
}

func TestCode_Decode(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code Code
		op   CodeOp
	}{
		{0x0000, OP_HALT},
		{0x00e0, OP_CLS},
		{0x00ee, OP_RET},
		{0x0001, OP_UNKNOWN},
		{0x01e0, OP_UNKNOWN},
		{0x1234, OP_JP},
		{0x2345, OP_CALL},
		{0x3456, OP_SE_IMM},
		{0x4567, OP_SNE_IMM},
		{0x5670, OP_SE_REG},
		{0x5671, OP_UNKNOWN},
		{0x6789, OP_LD_IMM},
		{0x789a, OP_ADD_IMM},
		{0x89a0, OP_LD_REG},
		{0x89a1, OP_OR},
		{0x89a2, OP_AND},
		{0x89a3, OP_XOR},
		{0x89a4, OP_ADD_REG},
		{0x89a5, OP_SUB_REG},
		{0x89a6, OP_UNKNOWN},
		{0x89ae, OP_UNKNOWN},
		{0x9ab0, OP_SNE_REG},
		{0x9ab1, OP_UNKNOWN},
		{0xa123, OP_UNKNOWN},
		{0xb123, OP_UNKNOWN},
		{0xc123, OP_UNKNOWN},
		{0xd123, OP_UNKNOWN},
		{0xe19e, OP_UNKNOWN},
		{0xf133, OP_UNKNOWN},
	}

	for _, entry := range table {
		assert.Equal(entry.op, entry.code.Decode(), "0x%04x", uint16(entry.code))
	}
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code Code
		text string
	}{
		{0x0000, "halt"},
		{0x00e0, "cls"},
		{0x00ee, "ret"},
		{0x1234, "jp 0x234"},
		{0x2100, "call 0x100"},
		{0x3a05, "se va 0x05"},
		{0x4b10, "sne vb 0x10"},
		{0x5120, "se v1 v2"},
		{0x9120, "sne v1 v2"},
		{0x6fff, "ld vf 0xff"},
		{0x7001, "add v0 0x01"},
		{0x8010, "ld v0 v1"},
		{0x8011, "or v0 v1"},
		{0x8012, "and v0 v1"},
		{0x8013, "xor v0 v1"},
		{0x8014, "add v0 v1"},
		{0x8015, "sub v0 v1"},
		{0x8016, ".word 0x8016"},
		{0xf00a, ".word 0xf00a"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}
}

func TestCodeOp_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("halt", OP_HALT.String())
	assert.Equal("sub", OP_SUB_REG.String())
	assert.Equal("CodeOp(99)", CodeOp(99).String())
}

// Every instruction word disassembles to text that assembles back to itself.
func TestCode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	for word := 0; word <= 0xffff; word += 0x0013 {
		code := Code(word)
		prog, err := asm.Parse(strings.NewReader(code.String()))
		if !assert.NoError(err, code.String()) {
			continue
		}
		assert.Equal([]byte{byte(code >> 8), byte(code)}, prog.Binary(), code.String())
	}
}
