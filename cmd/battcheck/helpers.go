package main

import (
	"fmt"

	"github.com/fatih/color"
)

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func formatCapacity(mwh float64) string {
	return fmt.Sprintf("%.0f mWh", mwh)
}
