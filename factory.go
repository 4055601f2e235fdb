package molmesh

import (
	"context"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/molmesh/internal/d3"
	"github.com/soypat/molmesh/mesh"
	"golang.org/x/sync/errgroup"
)

// AtomSphere returns the sphere primitive of atom a with the given radius
// and color taken from scheme.
func AtomSphere(a Atom, radius float64, scheme ColorScheme, res mesh.SphereResolution) (mesh.Mesh, error) {
	spec, err := newSphereSpec(a, radius, scheme)
	if err != nil {
		return mesh.Mesh{}, err
	}
	return spec.build(res), nil
}

// BondCylinder returns the cylinder primitive of bond b between atoms of the
// structure. opts must be valid. A *mesh.DegenerateGeometryError is
// returned if the bonded atoms coincide.
func BondCylinder(atoms []Atom, b Bond, opts Options) (mesh.Mesh, error) {
	p0, p1 := d3.Vec32(atoms[b.I].Pos), d3.Vec32(atoms[b.J].Pos)
	return mesh.Cylinder(p0, p1, float32(opts.StickRadius), opts.CylinderSegments, opts.BondColor)
}

// sphereSpec holds everything needed to tessellate one atom sphere.
type sphereSpec struct {
	center ms3.Vec
	radius float32
	color  mesh.Color
}

func newSphereSpec(a Atom, radius float64, scheme ColorScheme) (sphereSpec, error) {
	if !d3.Finite32(a.Pos) {
		return sphereSpec{}, &MissingPropertyError{Atom: -1, Property: "finite position", Element: a.Symbol()}
	}
	if !(radius > 0) {
		return sphereSpec{}, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}
	c, err := scheme.Color(a)
	if err != nil {
		return sphereSpec{}, err
	}
	return sphereSpec{center: d3.Vec32(a.Pos), radius: float32(radius), color: c}, nil
}

func (s sphereSpec) build(res mesh.SphereResolution) mesh.Mesh {
	return mesh.UVSphere(s.center, s.radius, res, s.color)
}

// sphereSpecs resolves the radius and color of every atom before any geometry
// is generated so a missing property aborts the build up front.
// If vdw is true atoms are sized by their van der Waals radius, otherwise
// by fixedRadius; in both cases the element must be present.
func sphereSpecs(atoms []Atom, vdw bool, fixedRadius float64, scheme ColorScheme) ([]sphereSpec, error) {
	specs := make([]sphereSpec, len(atoms))
	for i, a := range atoms {
		radius := fixedRadius
		if vdw {
			r, err := a.VdWRadius()
			if err != nil {
				return nil, locate(err, i)
			}
			radius = r
		} else if a.Symbol() == "" {
			return nil, &MissingPropertyError{Atom: i, Property: "element"}
		}
		spec, err := newSphereSpec(a, radius, scheme)
		if err != nil {
			return nil, locate(err, i)
		}
		specs[i] = spec
	}
	return specs, nil
}

// locate sets the atom index of a *MissingPropertyError. Other errors are
// wrapped with the index.
func locate(err error, i int) error {
	if mp, ok := err.(*MissingPropertyError); ok {
		return mp.atIndex(i)
	}
	return fmt.Errorf("atom %d: %w", i, err)
}

// generate calls fn for every i in [0, n). With more than one worker calls
// run concurrently on at most workers goroutines; fn must only write state
// owned by index i. ctx is checked before each call.
func generate(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// buildSpheres tessellates one sphere per entry of specs.
func buildSpheres(ctx context.Context, specs []sphereSpec, opts Options) ([]mesh.Mesh, error) {
	spheres := make([]mesh.Mesh, len(specs))
	err := generate(ctx, len(specs), opts.Workers, func(i int) error {
		spheres[i] = specs[i].build(opts.Sphere)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spheres, nil
}

// buildCylinders builds one cylinder per bond. Bonds whose cylinder is
// degenerate are omitted and reported in the returned warnings, in bond order.
func buildCylinders(ctx context.Context, atoms []Atom, bonds []Bond, opts Options) ([]mesh.Mesh, []error, error) {
	cylinders := make([]mesh.Mesh, len(bonds))
	failed := make([]error, len(bonds))
	err := generate(ctx, len(bonds), opts.Workers, func(k int) error {
		cylinders[k], failed[k] = BondCylinder(atoms, bonds[k], opts)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	var warnings []error
	kept := cylinders[:0]
	for k := range cylinders {
		if failed[k] != nil {
			warnings = append(warnings, fmt.Errorf("bond %d-%d: %w", bonds[k].I, bonds[k].J, failed[k]))
			continue
		}
		kept = append(kept, cylinders[k])
	}
	return kept, warnings, nil
}
