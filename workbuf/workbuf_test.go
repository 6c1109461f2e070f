package workbuf

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/blas/blas32"
)

type sequenceSource struct {
	values []float64
	next   int
}

func (s *sequenceSource) Rand() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++

	return v
}

type panickingSource struct{}

func (panickingSource) Rand() float64 {
	panic("source broken")
}

var _ = Describe("RandomAllocator", func() {
	var (
		src *sequenceSource
		a   *RandomAllocator
	)

	BeforeEach(func() {
		src = &sequenceSource{values: []float64{0.25, 0.5, 0.75}}
		a = NewRandomAllocator(src)
	})

	It("should allocate a square matrix", func() {
		m, err := a.Allocate(3)

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Rows).To(Equal(3))
		Expect(m.Cols).To(Equal(3))
		Expect(m.Stride).To(Equal(3))
		Expect(m.Data).To(HaveLen(9))
		Expect(src.next).To(Equal(9))
	})

	It("should fill the matrix from the source", func() {
		m, err := a.Allocate(2)

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Data).To(Equal([]float32{0.25, 0.5, 0.75, 0.25}))
	})

	It("should keep values below one", func() {
		src.values = []float64{0.99999999999}

		m, err := a.Allocate(1)

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Data[0]).To(BeNumerically("<", float32(1)))
	})

	It("should allocate an empty matrix", func() {
		m, err := a.Allocate(0)

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Data).To(BeEmpty())
	})

	It("should fill from the default source within [0, 1)", func() {
		a = NewRandomAllocator(nil)

		m, err := a.Allocate(16)

		Expect(err).NotTo(HaveOccurred())
		for _, v := range m.Data {
			Expect(v).To(BeNumerically(">=", float32(0)))
			Expect(v).To(BeNumerically("<", float32(1)))
		}
	})

	It("should report a negative side as an allocation error", func() {
		_, err := a.Allocate(-1)

		var allocErr *AllocationError
		Expect(errors.As(err, &allocErr)).To(BeTrue())
		Expect(allocErr.Side).To(Equal(-1))
		Expect(errors.Is(err, errNegativeSide)).To(BeTrue())
	})

	It("should turn an impossible allocation into an allocation error", func() {
		_, err := a.Allocate(1 << 24)

		var allocErr *AllocationError
		Expect(errors.As(err, &allocErr)).To(BeTrue())
		Expect(allocErr.Side).To(Equal(1 << 24))
		Expect(src.next).To(Equal(0))
	})

	It("should not absorb panics unrelated to allocation", func() {
		a = NewRandomAllocator(panickingSource{})

		Expect(func() { _, _ = a.Allocate(2) }).To(PanicWith("source broken"))
	})

	It("should raise runtime errors other than makeslice again", func() {
		idx := 5
		guarded := func() {
			var err error
			defer recoverAllocation(1, &err)

			var s []float32
			_ = s[idx]
		}

		Expect(guarded).To(Panic())
	})

	It("should absorb only makeslice panics", func() {
		var err error
		func() {
			defer recoverAllocation(3, &err)

			n := -1
			_ = make([]float32, n)
		}()

		var allocErr *AllocationError
		Expect(errors.As(err, &allocErr)).To(BeTrue())
		Expect(allocErr.Side).To(Equal(3))
		Expect(err.Error()).To(ContainSubstring("makeslice"))
	})

	It("should multiply a matrix by itself", func() {
		m := blas32.General{
			Rows: 2, Cols: 2, Stride: 2,
			Data: []float32{1, 2, 3, 4},
		}

		c, err := a.Multiply(m)

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Data).To(Equal([]float32{7, 10, 15, 22}))
		Expect(m.Data).To(Equal([]float32{1, 2, 3, 4}))
	})

	It("should multiply an empty matrix", func() {
		c, err := a.Multiply(blas32.General{})

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Data).To(BeEmpty())
	})

	It("should refuse to multiply a non-square matrix", func() {
		m := blas32.General{
			Rows: 1, Cols: 2, Stride: 2,
			Data: []float32{1, 2},
		}

		_, err := a.Multiply(m)

		var allocErr *AllocationError
		Expect(err).To(HaveOccurred())
		Expect(errors.As(err, &allocErr)).To(BeFalse())
	})
})

var _ = Describe("AllocationError", func() {
	It("should describe the matrix and unwrap the cause", func() {
		cause := errors.New("no memory")
		err := &AllocationError{Side: 4, Err: cause}

		Expect(err.Error()).To(Equal("allocate 4x4 matrix: no memory"))
		Expect(errors.Is(err, cause)).To(BeTrue())
	})
})
