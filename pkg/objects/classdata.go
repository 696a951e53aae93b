package objects

// Class identifies a DNP3 event class. Group 60 variation (1-4) selects
// which class(es) a read request polls; Class0 is the static "integrity"
// data set, Classes 1-3 are event data prioritized by the outstation.
type Class int

const (
	Class0 Class = iota
	Class1
	Class2
	Class3
)

// Group60Variation returns the group 60 variation number that requests the
// given class.
func (c Class) Group60Variation() byte { return byte(c) + 1 }
