package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"golang.org/x/time/rate"
)

// redrawInterval limits how often the live progress line is redrawn.
const redrawInterval = 100 * time.Millisecond

// progressView renders scan status and progress on stderr.
//
// On a terminal the status and percentage share one line that is redrawn
// in place. Otherwise each status change is printed on its own line and
// percentages are not printed.
type progressView struct {
	w        io.Writer
	live     bool
	status   string
	fraction float64
	redraw   rate.Sometimes
	label    *color.Color
	drawn    bool
}

func newProgressView(w io.Writer, live bool) *progressView {
	label := color.New(color.FgCyan)
	if live {
		label.EnableColor()
	} else {
		label.DisableColor()
	}
	return &progressView{
		w:      w,
		live:   live,
		redraw: rate.Sometimes{Interval: redrawInterval},
		label:  label,
	}
}

// Status is a confscan.StatusFunc.
func (v *progressView) Status(msg string) {
	if msg == v.status {
		return
	}
	v.status = msg
	if !v.live {
		fmt.Fprintln(v.w, msg)
		return
	}
	v.draw()
}

// Progress is a confscan.ProgressFunc.
func (v *progressView) Progress(fraction float64) {
	v.fraction = fraction
	if !v.live {
		return
	}
	// Phase boundaries are always drawn so a phase never appears stuck.
	if fraction == 0 || fraction >= 1 {
		v.draw()
		return
	}
	v.redraw.Do(v.draw)
}

// Done ends the live line.
func (v *progressView) Done() {
	if v.live && v.drawn {
		fmt.Fprintln(v.w)
		v.drawn = false
	}
}

func (v *progressView) draw() {
	fmt.Fprintf(v.w, "\r\033[K%s %3.0f%%", v.label.Sprint(v.status), v.fraction*100)
	v.drawn = true
}
