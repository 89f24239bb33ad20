package main

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const barLength = 40

type progressBar struct {
	w      io.Writer
	filled map[string]int
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w, filled: make(map[string]int)}
}

// Progress redraws the bar for stage whenever it grows by a character, or
// reaches the end.
func (p *progressBar) Progress(stage string, current, total int) {
	if total <= 0 {
		return
	}
	filled := int(math.Round(float64(barLength*current) / float64(total)))
	last, seen := p.filled[stage]
	if seen && filled == last && current != total {
		return
	}
	p.filled[stage] = filled
	percent := float64(current) / float64(total) * 100
	bar := strings.Repeat("█", filled) + strings.Repeat(" ", barLength-filled)
	fmt.Fprintf(p.w, "\r%s |%s| %.2f%% Complete", stage, bar, percent)
}

func (p *progressBar) Done(stage string) {
	if _, seen := p.filled[stage]; seen {
		fmt.Fprintln(p.w)
	}
	delete(p.filled, stage)
}
