package molmesh

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/molmesh/mesh"
)

// Options configures Build. Options are passed by value and never modified.
type Options struct {
	Representation Representation
	// Sphere is the tessellation of atom spheres.
	Sphere mesh.SphereResolution
	// BallRadius is the sphere radius in Ångström used by BallAndStick.
	BallRadius float64
	// StickRadius is the bond cylinder radius in Ångström used by BallAndStick.
	StickRadius float64
	// CylinderSegments is the number of sides of a bond cylinder.
	CylinderSegments int
	// BondColor is the color of every bond cylinder.
	BondColor mesh.Color
	// Rules decide which atoms are bonded in BallAndStick.
	Rules BondRules
	// Workers is the number of goroutines generating primitives.
	// Values below 2 generate primitives on the calling goroutine.
	Workers int
	// Logger receives diagnostics. If nil slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when none are specified.
func DefaultOptions() Options {
	return Options{
		Representation:   Solid,
		Sphere:           mesh.SphereResolution{Latitude: 10, Longitude: 20},
		BallRadius:       0.3,
		StickRadius:      0.1,
		CylinderSegments: 12,
		BondColor:        mesh.RGB(0.6, 0.6, 0.6),
		Rules:            DefaultBondRules(),
		Workers:          1,
	}
}

// Validate returns an error if the options cannot be used to build geometry.
// Rules are checked only for representations that infer bonds, so Options
// built by hand for BallAndStick must set them, usually from DefaultBondRules.
func (o Options) Validate() error {
	switch {
	case o.Representation >= numRepresentations:
		return fmt.Errorf("invalid representation %d", uint8(o.Representation))
	case o.Sphere.Latitude < 2:
		return fmt.Errorf("sphere latitude subdivisions must be at least 2, got %d", o.Sphere.Latitude)
	case o.Sphere.Longitude < 3:
		return fmt.Errorf("sphere longitude subdivisions must be at least 3, got %d", o.Sphere.Longitude)
	case !(o.BallRadius > 0):
		return fmt.Errorf("ball radius must be positive, got %g", o.BallRadius)
	case !(o.StickRadius > 0):
		return fmt.Errorf("stick radius must be positive, got %g", o.StickRadius)
	case o.CylinderSegments < 3:
		return fmt.Errorf("cylinder segments must be at least 3, got %d", o.CylinderSegments)
	}
	if o.Representation == BallAndStick {
		if err := o.Rules.Validate(); err != nil {
			return fmt.Errorf("bond rules: %w", err)
		}
	}
	return nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// optionsDoc is the TOML layout of Options and ColorScheme.
type optionsDoc struct {
	Representation Representation `toml:"representation"`
	Workers        int            `toml:"workers"`
	Sphere         struct {
		Latitude  int `toml:"latitude"`
		Longitude int `toml:"longitude"`
	} `toml:"sphere"`
	BallAndStick struct {
		BallRadius  float64    `toml:"ball_radius"`
		StickRadius float64    `toml:"stick_radius"`
		Segments    int        `toml:"segments"`
		BondColor   [3]float32 `toml:"bond_color"`
	} `toml:"ball_and_stick"`
	Color struct {
		Scheme ColorKind  `toml:"scheme"`
		Solid  [3]float32 `toml:"solid"`
	} `toml:"color"`
}

// DecodeOptions reads options and a color scheme from a TOML document.
// Keys absent from the document keep their DefaultOptions value and the
// color scheme defaults to ByElementType. An example document:
//
//	representation = "ball-and-stick"
//	workers = 4
//
//	[sphere]
//	latitude = 12
//	longitude = 24
//
//	[ball_and_stick]
//	ball_radius = 0.25
//	stick_radius = 0.08
//	segments = 16
//	bond_color = [0.6, 0.6, 0.6]
//
//	[color]
//	scheme = "element"
//	solid = [1, 1, 1]
//
// Unknown keys and unknown enumeration names are errors.
func DecodeOptions(r io.Reader) (Options, ColorScheme, error) {
	opts := DefaultOptions()
	var doc optionsDoc
	doc.Representation = opts.Representation
	doc.Workers = opts.Workers
	doc.Sphere.Latitude = opts.Sphere.Latitude
	doc.Sphere.Longitude = opts.Sphere.Longitude
	doc.BallAndStick.BallRadius = opts.BallRadius
	doc.BallAndStick.StickRadius = opts.StickRadius
	doc.BallAndStick.Segments = opts.CylinderSegments
	doc.BallAndStick.BondColor = [3]float32{opts.BondColor.R, opts.BondColor.G, opts.BondColor.B}
	doc.Color.Scheme = ColorByElement
	doc.Color.Solid = [3]float32{1, 1, 1}

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Options{}, ColorScheme{}, fmt.Errorf("decoding options: %s", strict.String())
		}
		return Options{}, ColorScheme{}, fmt.Errorf("decoding options: %w", err)
	}

	opts.Representation = doc.Representation
	opts.Workers = doc.Workers
	opts.Sphere = mesh.SphereResolution{Latitude: doc.Sphere.Latitude, Longitude: doc.Sphere.Longitude}
	opts.BallRadius = doc.BallAndStick.BallRadius
	opts.StickRadius = doc.BallAndStick.StickRadius
	opts.CylinderSegments = doc.BallAndStick.Segments
	bc := doc.BallAndStick.BondColor
	opts.BondColor = mesh.RGB(bc[0], bc[1], bc[2])
	if err := opts.Validate(); err != nil {
		return Options{}, ColorScheme{}, err
	}
	sc := doc.Color.Solid
	scheme := ColorScheme{Kind: doc.Color.Scheme, Solid: mesh.RGB(sc[0], sc[1], sc[2])}
	return opts, scheme, nil
}
