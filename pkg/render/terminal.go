// pkg/render/terminal.go
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opd-ai/go-airsim/pkg/entity"
)

// TerminalRenderer draws the aircraft and a one-line HUD as ASCII in a
// terminal. Useful for headless debugging without a GL window.
type TerminalRenderer struct {
	width  int
	height int
	buffer [][]rune
	scale  float64 // screen units per character cell
	shape  Shape
	hud    string
	out    io.Writer
}

// NewTerminalRenderer creates a new terminal renderer with the
// specified character grid dimensions.
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		shape:  AircraftShape(),
		out:    os.Stdout,
	}
}

// SetOutput redirects rendering, mainly for tests.
func (r *TerminalRenderer) SetOutput(w io.Writer) {
	r.out = w
}

// Clear implements Renderer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
	r.hud = ""
}

// RenderAircraft implements Renderer. The rotated shape's vertices are
// plotted into the character grid around the grid center.
func (r *TerminalRenderer) RenderAircraft(t Transform, st entity.AircraftState) {
	r.hud = FormatHUD(st)

	if t.Crashed {
		return
	}

	rotated := r.shape.Rotated(t.RollDeg)
	for _, p := range rotated.Points() {
		x := int(p.X/r.scale) + r.width/2
		y := int(p.Y/r.scale) + r.height/2
		if x >= 0 && x < r.width && y >= 0 && y < r.height {
			r.buffer[y][x] = '*'
		}
	}
}

// Present implements Renderer.
func (r *TerminalRenderer) Present() {
	var sb strings.Builder
	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	for y := range r.buffer {
		sb.WriteString("|")
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	sb.WriteString(r.hud + "\n")
	fmt.Fprint(r.out, sb.String())
}

// FormatHUD renders a telemetry snapshot as a single status line.
func FormatHUD(st entity.AircraftState) string {
	line := fmt.Sprintf("SPD %3.0f kt  ALT %5.0f ft  V/S %+5.0f  THR %3.0f%%  PITCH %+5.1f  ROLL %+5.1f",
		st.Speed, st.Altitude, st.VerticalSpeed, st.Throttle*100, st.Pitch, st.Roll)
	if st.Crashed {
		line += "  ** CRASHED **"
	} else if st.Stalled {
		line += "  ! STALL !"
	}
	return line
}
