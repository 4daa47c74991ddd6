package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvspline/bspline"
)

var (
	errNoData     = errors.New("no data rows")
	errBadSpline  = errors.New("malformed spline record")
	errNeedKnots  = errors.New("--knots is empty")
	errNeedOutput = errors.New("--out is required")
)

// input opens --in, or returns stdin with a no-op closer.
func (c *config) input() (io.Reader, func() error, error) {
	if c.in == "" {
		return c.stdin, func() error { return nil }, nil
	}
	f, err := os.Open(c.in)
	if err != nil {
		return nil, nil, err
	}

	return bufio.NewReader(f), f.Close, nil
}

// output runs write against --out (created or truncated) or stdout.
func (c *config) output(write func(w io.Writer) error) error {
	if c.out == "" {
		return write(c.stdout)
	}
	f, err := os.Create(c.out)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err = bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// readRows parses the input as numeric CSV. A first line that does not parse
// is taken as a header; every row needs at least minCols fields.
func (c *config) readRows(minCols int) ([][]float64, error) {
	r, closeIn, err := c.input()
	if err != nil {
		return nil, err
	}
	defer closeIn()

	return readRows(r, minCols)
}

func readRows(r io.Reader, minCols int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]float64
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		vals, err := parseFields(rec)
		if err != nil {
			if first {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(vals) < minCols {
			return nil, fmt.Errorf("line %d: want %d columns, got %d", line, minCols, len(vals))
		}
		rows = append(rows, vals)
	}
	if len(rows) == 0 {
		return nil, errNoData
	}

	return rows, nil
}

func parseFields(rec []string) ([]float64, error) {
	vals := make([]float64, len(rec))
	var err error
	for i, s := range rec {
		if vals[i], err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil, err
		}
	}

	return vals, nil
}

// column extracts column j of rows.
func column(rows [][]float64, j int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[j]
	}

	return out
}

// parseList reads a comma-separated list of floats; "" yields nil.
func parseList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	return parseFields(strings.Split(s, ","))
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// writeSpline prints one "k", "t" or "c" record per line; the values
// round-trip exactly through readSpline.
func writeSpline(w io.Writer, s *bspline.Spline[float64]) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"k", strconv.Itoa(s.Degree())})
	for _, v := range s.Knots() {
		_ = cw.Write([]string{"t", formatFloat(v)})
	}
	for _, v := range s.Coefficients()[:s.Len()] {
		_ = cw.Write([]string{"c", formatFloat(v)})
	}
	cw.Flush()

	return cw.Error()
}

func readSpline(r io.Reader) (*bspline.Spline[float64], error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var tck bspline.TCK[float64]
	haveK := false
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadSpline, err)
		}
		line, _ := cr.FieldPos(0)
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", errBadSpline, line, err)
		}
		switch rec[0] {
		case "k":
			if tck.K, err = bspline.DegreeFromFloat(v); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			haveK = true
		case "t":
			tck.T = append(tck.T, v)
		case "c":
			tck.C = append(tck.C, v)
		default:
			return nil, fmt.Errorf("%w: line %d: unknown tag %q", errBadSpline, line, rec[0])
		}
	}
	if !haveK {
		return nil, fmt.Errorf("%w: no degree record", errBadSpline)
	}

	return bspline.FromTCK(tck)
}
