// Package defs holds the definitions shared between the analysis components:
// program locations and the worklists ordering them.
package defs

import (
	u "github.com/cs-au-dk/ibex/utils"

	c "github.com/fatih/color"
)

var colorize = struct {
	Method func(...interface{}) string
	Offset func(...interface{}) string
}{
	Method: func(is ...interface{}) string {
		return u.CanColorize(c.New(c.FgHiBlue).SprintFunc())(is...)
	},
	Offset: func(is ...interface{}) string {
		return u.CanColorize(c.New(c.FgHiCyan).SprintFunc())(is...)
	},
}
