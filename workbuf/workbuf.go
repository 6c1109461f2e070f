// Package workbuf allocates the square float32 matrices that put pressure on
// the memory allocator.
package workbuf

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	errNegativeSide = errors.New("negative side length")
	errTooLarge     = errors.New("element count overflows int")
)

// An AllocationError reports that a work buffer could not be created. It is
// the only failure a memory stress loop is allowed to absorb.
type AllocationError struct {
	Side int
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate %dx%d matrix: %v", e.Side, e.Side, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// A RandomSource generates float64 values uniformly distributed in [0, 1).
type RandomSource interface {
	Rand() float64
}

// An Allocator creates work buffers.
type Allocator interface {
	// Allocate returns an n x n matrix filled with values in [0, 1).
	Allocate(n int) (blas32.General, error)

	// Multiply returns the product of a square matrix with itself.
	Multiply(m blas32.General) (blas32.General, error)
}

// RandomAllocator allocates matrices filled from a RandomSource.
type RandomAllocator struct {
	src RandomSource
}

// NewRandomAllocator creates a RandomAllocator. A nil src falls back to a
// uniform distribution over [0, 1).
func NewRandomAllocator(src RandomSource) *RandomAllocator {
	if src == nil {
		src = distuv.Uniform{Min: 0, Max: 1}
	}

	return &RandomAllocator{src: src}
}

// Allocate creates a new n x n matrix and fills it with random values.
func (a *RandomAllocator) Allocate(n int) (m blas32.General, err error) {
	data, err := makeData(n)
	if err != nil {
		return blas32.General{}, err
	}

	for i := range data {
		data[i] = toUnitFloat32(a.src.Rand())
	}

	return general(n, data), nil
}

// Multiply computes m * m into a newly allocated matrix.
func (a *RandomAllocator) Multiply(m blas32.General) (blas32.General, error) {
	if m.Rows != m.Cols {
		return blas32.General{}, fmt.Errorf(
			"multiply %dx%d matrix: not square", m.Rows, m.Cols)
	}

	n := m.Rows
	if n == 0 {
		return blas32.General{}, nil
	}

	data, err := makeData(n)
	if err != nil {
		return blas32.General{}, err
	}

	c := general(n, data)
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, m, m, 0, c)

	return c, nil
}

func general(n int, data []float32) blas32.General {
	return blas32.General{
		Rows:   n,
		Cols:   n,
		Stride: n,
		Data:   data,
	}
}

func makeData(n int) (data []float32, err error) {
	if n < 0 {
		return nil, &AllocationError{Side: n, Err: errNegativeSide}
	}

	if n > 0 && n > math.MaxInt/n {
		return nil, &AllocationError{Side: n, Err: errTooLarge}
	}

	defer recoverAllocation(n, &err)

	return make([]float32, n*n), nil
}

// recoverAllocation turns a makeslice panic into an AllocationError. Any other
// panic is raised again. Running out of memory is a fatal runtime error that
// cannot be recovered, so it still ends the process.
func recoverAllocation(n int, err *error) {
	r := recover()
	if r == nil {
		return
	}

	rerr, ok := r.(runtime.Error)
	if !ok || !isAllocationPanic(rerr) {
		panic(r)
	}

	*err = &AllocationError{Side: n, Err: rerr}
}

func isAllocationPanic(err runtime.Error) bool {
	return strings.Contains(err.Error(), "makeslice")
}

// toUnitFloat32 narrows v to float32 without rounding up to 1.
func toUnitFloat32(v float64) float32 {
	f := float32(v)
	if f >= 1 {
		return math.Nextafter32(1, 0)
	}

	return f
}
