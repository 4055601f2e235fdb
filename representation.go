package molmesh

import (
	"fmt"
	"strings"
)

// Representation is the visual style used to build the geometry of a structure.
type Representation uint8

const (
	// Solid draws every atom as a sphere of its van der Waals radius.
	Solid Representation = iota
	Wireframe
	// BallAndStick draws atoms as small spheres joined by bond cylinders.
	BallAndStick
	Cartoon
	Textured
	LevelOfDetail
	numRepresentations
)

var representationNames = [numRepresentations]string{
	Solid:         "solid",
	Wireframe:     "wireframe",
	BallAndStick:  "ball-and-stick",
	Cartoon:       "cartoon",
	Textured:      "textured",
	LevelOfDetail: "level-of-detail",
}

func (r Representation) String() string {
	if r >= numRepresentations {
		return fmt.Sprintf("Representation(%d)", uint8(r))
	}
	return representationNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Representation) MarshalText() ([]byte, error) {
	if r >= numRepresentations {
		return nil, fmt.Errorf("invalid representation %d", uint8(r))
	}
	return []byte(representationNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Representation) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range representationNames {
		if n == name {
			*r = Representation(i)
			return nil
		}
	}
	return fmt.Errorf("unknown representation %q", text)
}
