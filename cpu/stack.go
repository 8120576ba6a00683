package cpu

const (
	STACK_LIMIT = 16 // Maximum call depth
)

// Stack is the fixed-capacity return address stack.
type Stack struct {
	Data    [STACK_LIMIT]uint16 // Saved return addresses.
	Pointer int                 // Count of used entries, 0 to STACK_LIMIT.
}

// Push saves a return address, returning false if the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Pointer] = value
	s.Pointer++
	return true
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Pointer--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Pointer == 0
}

func (s *Stack) Full() bool {
	return s.Pointer == STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Pointer-1], true
}

// Reset empties the stack and clears saved addresses.
func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Pointer = 0
}
