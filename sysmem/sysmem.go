// Package sysmem queries the memory available on the host and derives the
// size of the stress work buffer from it.
package sysmem

import (
	"fmt"
	"math"

	"github.com/shirou/gopsutil/mem"
)

// BytesPerElement is the divisor applied to the available memory when sizing
// the work buffer.
//
// The buffer holds float32 values, so the resulting matrix takes about half
// of the available memory. The value is kept as is.
const BytesPerElement = 8

// A Querier reports the memory currently available on the host, in bytes.
type Querier interface {
	Available() (uint64, error)
}

// VirtualMemory is a Querier backed by the operating system's virtual memory
// statistics.
type VirtualMemory struct{}

// Available returns a snapshot of the available memory in bytes.
func (VirtualMemory) Available() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("query virtual memory: %w", err)
	}

	return vm.Available, nil
}

// SideLength returns floor(sqrt(available / BytesPerElement)).
func SideLength(available uint64) int {
	return int(isqrt(available / BytesPerElement))
}

const maxRoot = 1<<32 - 1

func isqrt(x uint64) uint64 {
	r := uint64(math.Sqrt(float64(x)))
	if r > maxRoot {
		r = maxRoot
	}

	// float64 cannot represent every uint64, so correct for rounding.
	for r > 0 && r*r > x {
		r--
	}

	for r < maxRoot && (r+1)*(r+1) <= x {
		r++
	}

	return r
}
