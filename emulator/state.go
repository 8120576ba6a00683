package emulator

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/chip8/cpu"
)

// State is a serializable snapshot of the machine.
type State struct {
	Ip       uint16   `cbor:"ip"`
	Register []byte   `cbor:"register"`
	Stack    []uint16 `cbor:"stack"`
	Memory   []byte   `cbor:"memory"`
	Ticks    int      `cbor:"ticks"`
}

// Canonical encoding, so identical machines produce identical snapshots.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("emulator: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalState serializes a State to CBOR bytes.
func MarshalState(st *State) ([]byte, error) {
	return cborEncMode.Marshal(st)
}

// UnmarshalState deserializes a State from CBOR bytes.
func UnmarshalState(data []byte) (*State, error) {
	var st State
	if err := cbor.Unmarshal(data, &st); err != nil {
		return nil, errors.Join(ErrStateInvalid, err)
	}
	return &st, nil
}

// State captures the current machine state.
func (emu *Emulator) State() (st *State) {
	c := emu.Cpu

	st = &State{
		Ip:       c.Ip,
		Register: append([]byte(nil), c.Register[:]...),
		Stack:    append([]uint16(nil), c.Stack.Data[:c.Stack.Pointer]...),
		Memory:   append([]byte(nil), c.Memory[:]...),
		Ticks:    c.Ticks,
	}

	return
}

// Restore replaces the machine state with a snapshot.
func (emu *Emulator) Restore(st *State) (err error) {
	switch {
	case len(st.Register) != cpu.REGISTER_COUNT:
		err = errors.Join(ErrStateInvalid, fmt.Errorf("%v registers", len(st.Register)))
	case len(st.Memory) != cpu.MEMORY_SIZE:
		err = errors.Join(ErrStateInvalid, fmt.Errorf("%v bytes of memory", len(st.Memory)))
	case len(st.Stack) > cpu.STACK_LIMIT:
		err = errors.Join(ErrStateInvalid, cpu.ErrStackOverflow)
	}
	if err != nil {
		return
	}

	c := emu.Cpu
	c.Ip = st.Ip
	copy(c.Register[:], st.Register)
	copy(c.Memory[:], st.Memory)
	c.Stack.Reset()
	for _, addr := range st.Stack {
		c.Stack.Push(addr)
	}
	c.Ticks = st.Ticks

	return
}

// SaveState writes the machine state to w as CBOR.
func (emu *Emulator) SaveState(w io.Writer) (err error) {
	data, err := MarshalState(emu.State())
	if err != nil {
		return
	}

	_, err = w.Write(data)
	return
}

// LoadState reads a CBOR machine state from r.
func (emu *Emulator) LoadState(r io.Reader) (err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	st, err := UnmarshalState(data)
	if err != nil {
		return
	}

	return emu.Restore(st)
}
