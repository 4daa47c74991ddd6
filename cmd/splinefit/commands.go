package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvspline/bspline"
	"github.com/katalvlaran/lvspline/entropy"
	"github.com/katalvlaran/lvspline/matrix"
	"github.com/katalvlaran/lvspline/matrix/gonumsolve"
	"github.com/katalvlaran/lvspline/sparse"
)

func interpCmd(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interp",
		Short: "Interpolate x,y rows; prints the spline as k/t/c rows",
		Args:  cobra.NoArgs,
		RunE:  action(c, runInterp),
	}
	f := cmd.Flags()
	f.IntVarP(&c.k, "degree", "k", 3, "spline degree")
	f.StringVar(&c.knots, "knots", "", "comma-separated knot vector (default derived from x)")
	f.StringVar(&c.bc, "bc", "", "boundary condition: not-a-knot, natural or clamped")
	f.StringVar(&c.solver, "solver", "band", "band (pivoting LU), dense (LU without pivoting) or gonum")

	return cmd
}

func lsqCmd(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsq",
		Short: "Least-squares fit on --knots; a third column is used as weights",
		Args:  cobra.NoArgs,
		RunE:  action(c, runLSQ),
	}
	f := cmd.Flags()
	f.IntVarP(&c.k, "degree", "k", 3, "spline degree")
	f.StringVar(&c.knots, "knots", "", "comma-separated knot vector")
	f.StringVar(&c.method, "method", "", "normal or qr")
	_ = cmd.MarkFlagRequired("knots")

	return cmd
}

func evalGridCmd(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval-grid",
		Short: "Evaluate a spline on a uniform grid over its base interval",
		Args:  cobra.NoArgs,
		RunE:  action(c, runEvalGrid),
	}
	f := cmd.Flags()
	f.IntVar(&c.grid, "grid", 101, "number of grid points")
	f.IntVar(&c.workers, "workers", 1, "goroutines used for evaluation")

	return cmd
}

func designCmd(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Write the sparse design matrix of the x column to --out",
		Args:  cobra.NoArgs,
		RunE:  action(c, runDesign),
	}
	f := cmd.Flags()
	f.IntVarP(&c.k, "degree", "k", 3, "spline degree")
	f.StringVar(&c.knots, "knots", "", "comma-separated knot vector")
	f.BoolVar(&c.half, "half", false, "store values as float16")
	_ = cmd.MarkFlagRequired("knots")

	return cmd
}

func entropyCmd(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entropy",
		Short: "Differential entropy of the first column",
		Args:  cobra.NoArgs,
		RunE:  action(c, runEntropy),
	}
	f := cmd.Flags()
	f.StringVar(&c.method, "method", "", "vasicek, van es, ebrahimi or correa")
	f.IntVar(&c.window, "window", 0, "window length (0 picks round(sqrt(n)))")

	return cmd
}

func parseBoundary(s string) (bspline.Boundary, error) {
	switch strings.ToLower(s) {
	case "", "not-a-knot":
		return bspline.NotAKnot, nil
	case "natural":
		return bspline.Natural, nil
	case "clamped":
		return bspline.Clamped, nil
	}

	return 0, fmt.Errorf("unknown boundary condition %q", s)
}

func parseLSQMethod(s string) (bspline.LSQMethod, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return bspline.NormalEquations, nil
	case "qr":
		return bspline.QR, nil
	}

	return 0, fmt.Errorf("unknown lsq method %q", s)
}

func parseSolver(s string) (bspline.Solver, error) {
	switch strings.ToLower(s) {
	case "", "band":
		return matrix.BandLU{}, nil
	case "dense":
		return matrix.DenseLU{}, nil
	case "gonum":
		return gonumsolve.Solver{}, nil
	}

	return nil, fmt.Errorf("unknown solver %q", s)
}

func runInterp(c *config) error {
	rows, err := c.readRows(2)
	if err != nil {
		return err
	}
	bc, err := parseBoundary(c.bc)
	if err != nil {
		return err
	}
	solver, err := parseSolver(c.solver)
	if err != nil {
		return err
	}
	knots, err := parseList(c.knots)
	if err != nil {
		return fmt.Errorf("--knots: %w", err)
	}

	opts := []bspline.InterpOption{bspline.WithBoundary(bc), bspline.WithSolver(solver)}
	if knots != nil {
		opts = append(opts, bspline.WithKnots(knots))
	}
	s, err := bspline.MakeInterp(column(rows, 0), column(rows, 1), c.k, opts...)
	if err != nil {
		return err
	}
	c.log.Info(c.p.Sprintf("interpolated %d sites", len(rows)),
		"degree", s.Degree(), "coefficients", s.Len(), "bc", c.bc, "solver", c.solver)

	return c.output(func(w io.Writer) error { return writeSpline(w, s) })
}

func runLSQ(c *config) error {
	rows, err := c.readRows(2)
	if err != nil {
		return err
	}
	knots, err := parseList(c.knots)
	if err != nil {
		return fmt.Errorf("--knots: %w", err)
	}
	if knots == nil {
		return errNeedKnots
	}
	method, err := parseLSQMethod(c.method)
	if err != nil {
		return err
	}

	opts := []bspline.LSQOption{bspline.WithMethod(method)}
	weighted := true
	for _, r := range rows {
		weighted = weighted && len(r) > 2
	}
	if weighted {
		opts = append(opts, bspline.WithWeights(column(rows, 2)))
	}
	s, err := bspline.MakeLSQ(column(rows, 0), column(rows, 1), knots, c.k, opts...)
	if err != nil {
		return err
	}
	c.log.Info(c.p.Sprintf("fitted %d sites with %d coefficients", len(rows), s.Len()),
		"degree", s.Degree(), "weighted", weighted)

	return c.output(func(w io.Writer) error { return writeSpline(w, s) })
}

func runEvalGrid(c *config) error {
	if c.grid < 2 {
		return fmt.Errorf("--grid must be >= 2, got %d", c.grid)
	}
	if c.workers < 1 {
		return fmt.Errorf("--workers must be >= 1, got %d", c.workers)
	}
	r, closeIn, err := c.input()
	if err != nil {
		return err
	}
	defer closeIn()
	s, err := readSpline(r)
	if err != nil {
		return err
	}

	lo, hi := s.Interval()
	x := make([]float64, c.grid)
	for i := range x {
		x[i] = lo + (hi-lo)*float64(i)/float64(c.grid-1)
	}
	x[c.grid-1] = hi
	y, err := s.Evaluate(x, bspline.Workers(c.workers))
	if err != nil {
		return err
	}
	c.log.Debug(c.p.Sprintf("evaluated %d points on [%g, %g]", len(x), lo, hi), "workers", c.workers)

	return c.output(func(w io.Writer) error {
		for i := range x {
			if _, err := fmt.Fprintf(w, "%s,%s\n", formatFloat(x[i]), formatFloat(y[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

func runDesign(c *config) error {
	if c.out == "" {
		return errNeedOutput
	}
	knots, err := parseList(c.knots)
	if err != nil {
		return fmt.Errorf("--knots: %w", err)
	}
	if knots == nil {
		return errNeedKnots
	}
	rows, err := c.readRows(1)
	if err != nil {
		return err
	}

	b, err := bspline.DesignMatrix(column(rows, 0), knots, c.k)
	if err != nil {
		return err
	}
	enc := sparse.EncodingFloat64
	if c.half {
		enc = sparse.EncodingFloat16
	}
	if err = b.Save(c.out, enc); err != nil {
		return err
	}
	c.log.Info(c.p.Sprintf("wrote %d×%d design matrix with %d stored values", b.Rows(), b.Cols(), b.NNZ()),
		"path", c.out, "half", c.half)

	return nil
}

func runEntropy(c *config) error {
	rows, err := c.readRows(1)
	if err != nil {
		return err
	}
	var opts []entropy.Option
	if c.method != "" {
		m, err := entropy.ParseMethod(c.method)
		if err != nil {
			return err
		}
		opts = append(opts, entropy.WithMethod(m))
	}
	if c.window != 0 {
		if c.window < 1 {
			return fmt.Errorf("--window must be >= 1, got %d", c.window)
		}
		opts = append(opts, entropy.WithWindow(c.window))
	}

	h, err := entropy.Differential(column(rows, 0), opts...)
	if err != nil {
		return err
	}
	c.log.Debug(c.p.Sprintf("estimated entropy of %d samples", len(rows)))

	return c.output(func(w io.Writer) error {
		_, err := fmt.Fprintln(w, formatFloat(h))
		return err
	})
}
