package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/chip8/cpu"
)

// Rom is a raw program image, loaded into memory from address 0.
type Rom struct {
	Data []byte
}

// ReadFrom replaces the image with the contents of r.
func (rc *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	data, err := io.ReadAll(io.LimitReader(r, cpu.MEMORY_SIZE+1))
	n = int64(len(data))
	if err != nil {
		return
	}

	if len(data) > cpu.MEMORY_SIZE {
		err = ErrRomSize
		return
	}

	rc.Data = data
	return
}

// WriteTo writes the image to w.
func (rc *Rom) WriteTo(w io.Writer) (n int64, err error) {
	count, err := w.Write(rc.Data)
	n = int64(count)
	return
}

// Codes iterates over the big-endian instruction words of the image.
// A trailing odd byte is ignored.
func (rc *Rom) Codes() iter.Seq2[uint16, cpu.Code] {
	return func(yield func(ip uint16, code cpu.Code) bool) {
		for ip := 0; ip+1 < len(rc.Data); ip += cpu.CODE_SIZE {
			code := cpu.Code(binary.BigEndian.Uint16(rc.Data[ip:]))
			if !yield(uint16(ip), code) {
				return
			}
		}
	}
}

// Listing writes a disassembly of the image to w.
func (rc *Rom) Listing(w io.Writer) (err error) {
	for ip, code := range rc.Codes() {
		_, err = fmt.Fprintf(w, "%03x: %04x  %v\n", ip, uint16(code), code)
		if err != nil {
			return
		}
	}

	return
}
