package visualization

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// recordingCanvas implements Canvas by logging every call
type recordingCanvas struct {
	ops   []string
	texts []string
	fills []drawing.Color
	arcs  int

	fill drawing.Color
}

func newRecordingSurface(width, height int) (*Surface, *recordingCanvas) {
	canvas := &recordingCanvas{}
	return &Surface{Canvas: canvas, Width: width, Height: height}, canvas
}

func (r *recordingCanvas) log(format string, args ...interface{}) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recordingCanvas) SetStrokeColor(c drawing.Color) { r.log("stroke-color %v", c) }
func (r *recordingCanvas) SetFillColor(c drawing.Color) {
	r.fill = c
	r.log("fill-color %v", c)
}
func (r *recordingCanvas) SetStrokeWidth(w float64)        { r.log("stroke-width %v", w) }
func (r *recordingCanvas) SetStrokeDashArray(d []float64)  { r.log("dash %v", d) }
func (r *recordingCanvas) MoveTo(x, y int)                 { r.log("move %d %d", x, y) }
func (r *recordingCanvas) LineTo(x, y int)                 { r.log("line %d %d", x, y) }
func (r *recordingCanvas) Close()                          { r.log("close") }
func (r *recordingCanvas) Stroke()                         { r.log("stroke") }
func (r *recordingCanvas) SetFont(*truetype.Font)          {}
func (r *recordingCanvas) SetFontColor(c drawing.Color)    { r.log("font-color %v", c) }
func (r *recordingCanvas) SetFontSize(size float64)        { r.log("font-size %v", size) }
func (r *recordingCanvas) SetTextRotation(radians float64) { r.log("rotate %v", radians) }
func (r *recordingCanvas) ClearTextRotation()              { r.log("clear-rotation") }
func (r *recordingCanvas) Save(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(r.ops, "\n"))
	return err
}
func (r *recordingCanvas) MeasureText(body string) chart.Box {
	return chart.Box{Right: 7 * len([]rune(body)), Bottom: 12}
}

func (r *recordingCanvas) ArcTo(cx, cy int, rx, ry, startAngle, delta float64) {
	r.arcs++
	r.log("arc %d %d %v %v", cx, cy, rx, ry)
}

func (r *recordingCanvas) Fill() {
	r.fills = append(r.fills, r.fill)
	r.log("fill")
}

func (r *recordingCanvas) FillStroke() {
	r.fills = append(r.fills, r.fill)
	r.log("fill-stroke")
}

func (r *recordingCanvas) Text(body string, x, y int) {
	r.texts = append(r.texts, body)
	r.log("text %q %d %d", body, x, y)
}

func (r *recordingCanvas) hasText(body string) bool {
	for _, t := range r.texts {
		if t == body {
			return true
		}
	}
	return false
}
