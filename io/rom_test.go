package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
)

func TestRom_ReadFrom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	n, err := rom.ReadFrom(bytes.NewReader([]byte{0x60, 0x05, 0x00, 0x00}))
	assert.NoError(err)
	assert.Equal(int64(4), n)
	assert.Equal([]byte{0x60, 0x05, 0x00, 0x00}, rom.Data)

	full := make([]byte, cpu.MEMORY_SIZE)
	_, err = rom.ReadFrom(bytes.NewReader(full))
	assert.NoError(err)
	assert.Equal(cpu.MEMORY_SIZE, len(rom.Data))
}

func TestRom_ReadFrom_TooLarge(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{0x12, 0x34}}
	_, err := rom.ReadFrom(bytes.NewReader(make([]byte, cpu.MEMORY_SIZE+10)))
	assert.ErrorIs(err, ErrRomSize)
	assert.Equal([]byte{0x12, 0x34}, rom.Data)
}

func TestRom_WriteTo(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{0x21, 0x00, 0x00, 0xee}}
	buf := &bytes.Buffer{}
	n, err := rom.WriteTo(buf)
	assert.NoError(err)
	assert.Equal(int64(4), n)
	assert.Equal(rom.Data, buf.Bytes())
}

func TestRom_Codes(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{0x80, 0x14, 0x00, 0xee, 0x12}}

	var ips []uint16
	var codes []cpu.Code
	for ip, code := range rom.Codes() {
		ips = append(ips, ip)
		codes = append(codes, code)
	}

	assert.Equal([]uint16{0, 2}, ips)
	assert.Equal([]cpu.Code{0x8014, 0x00ee}, codes)
}

func TestRom_Listing(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{0x21, 0x00, 0x80, 0x16, 0x00, 0x00}}
	buf := &strings.Builder{}
	assert.NoError(rom.Listing(buf))

	assert.Equal(strings.Join([]string{
		"000: 2100  call 0x100",
		"002: 8016  .word 0x8016",
		"004: 0000  halt",
		"",
	}, "\n"), buf.String())
}
