package molmesh

import "fmt"

// MissingPropertyError is returned when an atom lacks a property required to
// build its geometry or color, such as its element or van der Waals radius.
// It aborts the whole build.
type MissingPropertyError struct {
	// Atom is the index of the atom in the structure or -1 if unknown.
	Atom     int
	Property string
	// Element is the atom's element symbol, if it has one.
	Element string
}

func (e *MissingPropertyError) Error() string {
	where := "atom"
	if e.Atom >= 0 {
		where = fmt.Sprintf("atom %d", e.Atom)
	}
	if e.Element != "" {
		return fmt.Sprintf("%s (%s): missing %s", where, e.Element, e.Property)
	}
	return fmt.Sprintf("%s: missing %s", where, e.Property)
}

// atIndex returns a copy of e located at atom index i.
func (e *MissingPropertyError) atIndex(i int) *MissingPropertyError {
	cp := *e
	cp.Atom = i
	return &cp
}

// NotImplementedError is returned when a representation without a
// geometry builder is requested.
type NotImplementedError struct {
	Representation Representation
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("representation %s not implemented", e.Representation)
}
