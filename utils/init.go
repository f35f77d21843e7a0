package utils

import (
	"fmt"
	"log"
	"strings"
)

// options collects process-wide debugging toggles. Plain data, so the
// config package can install loaded settings without an import cycle.
type options struct {
	noColorize bool
	verbose    bool
	logSteps   bool
}

var opts = &options{}

type optInterface struct{}

// Opts exposes read access to the process-wide options.
func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Verbose() bool {
	return opts.verbose
}

func (optInterface) LogSteps() bool {
	return opts.logSteps
}

func (optInterface) OnVerbose(do func()) {
	if opts.verbose {
		do()
	}
}

// SetColorize toggles pretty printer colorization.
func SetColorize(enabled bool) {
	opts.noColorize = !enabled
}

// SetVerbose toggles verbose progress output.
func SetVerbose(enabled bool) {
	opts.verbose = enabled
}

// SetLogSteps toggles logging of individual fixpoint steps.
func SetLogSteps(enabled bool) {
	opts.logSteps = enabled
}

// CanColorize guards a colorization function behind the no-colorize option.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

func init() {
	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}
