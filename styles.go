package main

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

type styles struct {
	AppName      lipgloss.Style
	CliArgs      lipgloss.Style
	Comment      lipgloss.Style
	ErrorHeader  lipgloss.Style
	ErrorDetails lipgloss.Style
	ErrPadding   lipgloss.Style
	Flag         lipgloss.Style
	FlagDesc     lipgloss.Style
	InlineCode   lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	OK           lipgloss.Style
	Fail         lipgloss.Style
	Model        lipgloss.Style
}

func makeStyles(r *lipgloss.Renderer) (s styles) {
	const horizontalEdgePadding = 2
	s.AppName = r.NewStyle().Bold(true)
	s.CliArgs = r.NewStyle().Foreground(lipgloss.Color("#585858"))
	s.Comment = r.NewStyle().Foreground(lipgloss.Color("#757575"))
	s.ErrorHeader = r.NewStyle().Foreground(lipgloss.Color("#F1F1F1")).Background(lipgloss.Color("#FF5F87")).Bold(true).Padding(0, 1).SetString("ERROR")
	s.ErrorDetails = s.Comment
	s.ErrPadding = r.NewStyle().Padding(0, horizontalEdgePadding)
	s.Flag = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00B594", Dark: "#3EEFCF"}).Bold(true)
	s.FlagDesc = s.Comment
	s.InlineCode = r.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Background(lipgloss.Color("#3A3A3A")).Padding(0, 1)
	s.Label = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00B594", Dark: "#3EEFCF"}).Bold(true)
	s.Value = r.NewStyle()
	s.OK = r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	s.Fail = r.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	s.Model = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8470FF", Dark: "#745CFF"})
	return s
}

var stdoutRenderer = sync.OnceValue(func() *lipgloss.Renderer {
	return lipgloss.NewRenderer(os.Stdout)
})

var stdoutStyles = sync.OnceValue(func() styles {
	return makeStyles(stdoutRenderer())
})

var stderrRenderer = sync.OnceValue(func() *lipgloss.Renderer {
	return lipgloss.NewRenderer(os.Stderr)
})

var stderrStyles = sync.OnceValue(func() styles {
	return makeStyles(stderrRenderer())
})

// makeGradientText renders the app name with a color sweep when the
// terminal can show it.
func makeGradientText(baseStyle lipgloss.Style, str string) string {
	const minSize = 3
	if len(str) < minSize {
		return baseStyle.Render(str)
	}
	if stdoutRenderer().ColorProfile() != termenv.TrueColor {
		return baseStyle.Render(str)
	}
	a, _ := colorful.Hex("#3EEFCF")
	b, _ := colorful.Hex("#745CFF")
	var o strings.Builder
	runes := []rune(str)
	for i, r := range runes {
		color := a.BlendLuv(b, float64(i)/float64(len(runes)-1))
		o.WriteString(baseStyle.Foreground(lipgloss.Color(color.Hex())).Render(string(r)))
	}
	return o.String()
}
