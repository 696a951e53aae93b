package link

// FCBState tracks the single bit of persistent link-layer state a master
// station keeps: the outgoing frame count bit used on confirmed user-data
// frames.
type FCBState struct {
	bit bool
}

// Bit returns the current FCB value to use on the next confirmed frame.
func (s *FCBState) Bit() bool { return s.bit }

// Toggle flips FCB. The master toggles after every confirmed send.
func (s *FCBState) Toggle() { s.bit = !s.bit }

// Reset clears FCB, as happens on RESET_LINK or connection open.
func (s *FCBState) Reset() { s.bit = false }
