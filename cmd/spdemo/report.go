package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// styles are bound to one renderer so -no-color and pipes both render plain.
type styles struct {
	title  lipgloss.Style
	name   lipgloss.Style
	desc   lipgloss.Style
	line   lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
	help   lipgloss.Style
	cursor lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		name:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#98FB98")),
		desc:   r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		line:   r.NewStyle().PaddingLeft(4),
		pass:   r.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		help:   r.NewStyle().Foreground(lipgloss.Color("#666666")),
		cursor: r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")),
	}
}

func (s styles) status(res result) string {
	if res.err != nil {
		return s.fail.Render("FAIL")
	}
	return s.pass.Render("ok")
}

func (s styles) renderResult(b *strings.Builder, res result) {
	fmt.Fprintf(b, "%s %s  %s\n", s.status(res), s.name.Render(res.scenario.name), s.desc.Render(res.scenario.desc))
	for _, l := range res.lines {
		b.WriteString(s.line.Render(l))
		b.WriteString("\n")
	}
	if res.err != nil {
		b.WriteString(s.line.Render(s.fail.Render(res.err.Error())))
		b.WriteString("\n")
	}
}

// report renders every result and returns how many failed.
func report(w io.Writer, s styles, results []result) int {
	var b strings.Builder
	b.WriteString(s.title.Render("shared pointer scenarios"))
	b.WriteString("\n\n")

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
		}
		s.renderResult(&b, res)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d scenarios, %d failed\n", len(results), failed)
	io.WriteString(w, b.String())
	return failed
}
