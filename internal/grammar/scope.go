package grammar

// Scope records the values of named integers read so far in one run.
type Scope struct {
	values map[string]int64
}

func NewScope() *Scope {
	return &Scope{values: make(map[string]int64)}
}

func (s *Scope) Set(name string, value int64) {
	s.values[name] = value
}

func (s *Scope) Lookup(name string) (int64, bool) {
	v, ok := s.values[name]
	return v, ok
}
