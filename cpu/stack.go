package cpu

const (
	STACK_LIMIT = 16 // Maximum number of outstanding return addresses.
)

// Stack holds return addresses for the CALL_STACK convention.
type Stack struct {
	Data []int
}

func (s *Stack) Push(addr int) {
	s.Data = append(s.Data, addr)
}

func (s *Stack) Pop() (addr int, ok bool) {
	addr, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= STACK_LIMIT
}

func (s *Stack) Depth() int {
	return len(s.Data)
}

func (s *Stack) Peek() (addr int, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
