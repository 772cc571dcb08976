package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/paraxial/internal/beam"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matrixStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func header(s string) string {
	return headerStyle.Render(s)
}

func field(label string, format string, args ...any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...))
}

func renderMatrix(m beam.Mat2) string {
	body := fmt.Sprintf("% .10e  % .10e\n% .10e  % .10e", m[0], m[1], m[2], m[3])
	return matrixStyle.Render(body)
}
