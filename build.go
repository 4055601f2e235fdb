// Package molmesh converts molecular structures into triangle meshes.
// Atoms become spheres and, in the ball-and-stick representation, bonds
// inferred from distances and element pairs become cylinders. All
// primitives are merged into one mesh.Mesh.
package molmesh

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/soypat/molmesh/mesh"
)

// Result is the output of Build.
type Result struct {
	// Geometry is the merged mesh of all primitives: atom spheres in atom
	// order followed by bond cylinders in bond order.
	Geometry mesh.Mesh
	// Bonds are the inferred bonds. Empty for representations that do not
	// draw bonds.
	Bonds []Bond
	// Spheres and Cylinders are the number of primitives merged into Geometry.
	Spheres   int
	Cylinders int
	// Warnings are recoverable problems, such as bonds skipped because
	// their atoms coincide. Each wraps a *mesh.DegenerateGeometryError.
	Warnings []error
}

// Build converts a structure into a single merged mesh using the
// representation selected in opts and colors from scheme.
// A *MissingPropertyError aborts the build. Representations without a
// geometry builder return a *NotImplementedError. If ctx is cancelled
// between primitives ctx.Err() is returned.
//
// Build does not modify s or retain any of its arguments.
func Build(ctx context.Context, s Structure, opts Options, scheme ColorScheme) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	var (
		res Result
		err error
	)
	switch opts.Representation {
	case Solid:
		res, err = buildSolid(ctx, s, opts, scheme)
	case BallAndStick:
		res, err = buildBallAndStick(ctx, s, opts, scheme)
	case Wireframe, Cartoon, Textured, LevelOfDetail:
		return Result{}, &NotImplementedError{Representation: opts.Representation}
	default:
		panic(fmt.Sprintf("bug: unhandled representation %d", opts.Representation))
	}
	if err != nil {
		return Result{}, err
	}
	opts.logger().Debug("built geometry",
		slog.String("representation", opts.Representation.String()),
		slog.Int("atoms", len(s.Atoms)),
		slog.Int("bonds", len(res.Bonds)),
		slog.Int("spheres", res.Spheres),
		slog.Int("cylinders", res.Cylinders),
		slog.Int("vertices", res.Geometry.NumVertices()),
		slog.Int("triangles", res.Geometry.NumTriangles()),
	)
	return res, nil
}

func buildSolid(ctx context.Context, s Structure, opts Options, scheme ColorScheme) (Result, error) {
	specs, err := sphereSpecs(s.Atoms, true, 0, scheme)
	if err != nil {
		return Result{}, err
	}
	spheres, err := buildSpheres(ctx, specs, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Geometry: mesh.Merge(spheres...),
		Bonds:    []Bond{},
		Spheres:  len(spheres),
	}, nil
}

func buildBallAndStick(ctx context.Context, s Structure, opts Options, scheme ColorScheme) (Result, error) {
	specs, err := sphereSpecs(s.Atoms, false, opts.BallRadius, scheme)
	if err != nil {
		return Result{}, err
	}
	bonds, stats := opts.Rules.InferStats(s.Atoms)
	logFallbacks(opts.logger(), stats)

	spheres, err := buildSpheres(ctx, specs, opts)
	if err != nil {
		return Result{}, err
	}
	cylinders, warnings, err := buildCylinders(ctx, s.Atoms, bonds, opts)
	if err != nil {
		return Result{}, err
	}
	for _, w := range warnings {
		opts.logger().Warn("skipping bond cylinder", slog.String("err", w.Error()))
	}
	return Result{
		Geometry:  mesh.Merge(append(spheres, cylinders...)...),
		Bonds:     bonds,
		Spheres:   len(spheres),
		Cylinders: len(cylinders),
		Warnings:  warnings,
	}, nil
}

// logFallbacks logs, in a stable order, the element pairs for which bond
// inference used the default maximum length.
func logFallbacks(log *slog.Logger, stats BondStats) {
	if len(stats.Fallbacks) == 0 {
		return
	}
	pairs := make([]ElementPair, 0, len(stats.Fallbacks))
	for p := range stats.Fallbacks {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b ElementPair) int {
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		if a[1] < b[1] {
			return -1
		} else if a[1] > b[1] {
			return 1
		}
		return 0
	})
	for _, p := range pairs {
		log.Debug("default bond length used",
			slog.String("pair", p[0]+"-"+p[1]),
			slog.Int("pairs", stats.Fallbacks[p]),
		)
	}
}
