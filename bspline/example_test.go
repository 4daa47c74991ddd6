package bspline_test

import (
	"fmt"

	"github.com/katalvlaran/lvspline/bspline"
)

// ExampleNew builds the cubic Bernstein basis on [0, 1]; the coefficients
// (1, 2, 3, 4) describe the line 1 + 3x.
func ExampleNew() {
	s, err := bspline.New([]float64{0, 0, 0, 0, 1, 1, 1, 1}, []float64{1, 2, 3, 4}, 3)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	v, _ := s.Evaluate([]float64{0, 0.5, 1})
	d, _ := s.Evaluate([]float64{0.25}, bspline.Nu(1))
	fmt.Printf("%.4g %.4g\n", v, d)
	// Output:
	// [1 2.5 4] [3]
}

// ExampleMakeInterp interpolates x² with a not-a-knot cubic, which reproduces
// it exactly.
func ExampleMakeInterp() {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0, 1, 4, 9, 16, 25}
	s, err := bspline.MakeInterp(x, y, 3)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.4f\n", s.At(2.5, 0))
	// Output:
	// 6.2500
}

func ExampleSpline_Integrate() {
	s, _ := bspline.New([]float64{0, 0, 0, 0, 1, 1, 1, 1}, []float64{1, 2, 3, 4}, 3)
	in, _ := s.Integrate(0, 1)
	out, _ := s.Integrate(-1, 2, bspline.Extrapolate(false))
	fmt.Printf("%.4f %.4f\n", in[0], out[0])
	// Output:
	// 2.5000 2.5000
}

func ExampleTCK_Index() {
	s, _ := bspline.New([]float64{0, 0, 1, 1}, []float64{2, 5}, 1)
	tck := s.TCK()
	k, _ := tck.Index(-1)
	c, _ := tck.Index(1)
	_, err := tck.Index(3)
	fmt.Println(k, c)
	fmt.Println(err)
	// Output:
	// 1 [2 5]
	// TCK: bspline: tuple index out of range: index 3
}
