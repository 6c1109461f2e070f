package cmd

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stress/stress"
	"github.com/sarchlab/stress/timing"
)

// maxSeconds is the longest duration a time.Duration can hold.
var maxSeconds = time.Duration(math.MaxInt64).Seconds()

func validateArgs(_ *cobra.Command, args []string) error {
	_, _, err := parseArgs(args)
	return err
}

func parseArgs(args []string) (stress.Mode, time.Duration, error) {
	mode, err := stress.ParseMode(args[0])
	if err != nil {
		return "", 0, err
	}

	d, err := parseSeconds(args[1])
	if err != nil {
		return "", 0, err
	}

	return mode, d, nil
}

func parseSeconds(s string) (time.Duration, error) {
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: not a number", s)
	}

	if math.IsNaN(sec) || math.Abs(sec) >= maxSeconds {
		return 0, fmt.Errorf("invalid duration %q: out of range", s)
	}

	return timing.SecondsToDuration(sec), nil
}
