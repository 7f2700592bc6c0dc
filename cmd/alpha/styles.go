package main

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatCell formats a matrix value. Returns and sigmas are small, so they get
// more decimals than prices and dollar volumes.
func FormatCell(value float64, matrix string) string {
	if math.IsNaN(value) {
		return "NaN"
	}

	switch matrix {
	case MatrixReturns, MatrixSigmas, MatrixFactors:
		return fmt.Sprintf("%.6f", value)
	case MatrixVolumes:
		return fmt.Sprintf("%.0f", value)
	default:
		return fmt.Sprintf("%.4f", value)
	}
}
