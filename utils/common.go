package utils

import (
	"fmt"
	"time"

	"golang.org/x/exp/constraints"
)

func TimeTrack(start time.Time, name string) {
	fmt.Printf("%s took %s\n", name, time.Since(start))
}

func VerbosePrint(format string, a ...interface{}) (n int, err error) {
	if Opts().Verbose() {
		return fmt.Printf(format, a...)
	}
	return 0, nil
}

// SetBits filters the singleton masks present in mask, in the order
// given.
func SetBits[T constraints.Unsigned](mask T, singletons ...T) []T {
	var res []T
	for _, s := range singletons {
		if mask&s != 0 {
			res = append(res, s)
		}
	}
	return res
}
