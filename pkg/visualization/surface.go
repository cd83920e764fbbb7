package visualization

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrInvalidSurface is returned when a surface has no drawable area
var ErrInvalidSurface = errors.New("surface must be at least 1x1")

// Canvas is the 2-D drawing context the renderers paint on.
// It is the subset of chart.Renderer the renderers need, so go-chart's PNG
// and SVG renderers satisfy it directly.
type Canvas interface {
	SetStrokeColor(drawing.Color)
	SetFillColor(drawing.Color)
	SetStrokeWidth(width float64)
	SetStrokeDashArray(dashArray []float64)
	MoveTo(x, y int)
	LineTo(x, y int)
	ArcTo(cx, cy int, rx, ry, startAngle, delta float64)
	Close()
	Stroke()
	Fill()
	FillStroke()
	SetFont(*truetype.Font)
	SetFontColor(drawing.Color)
	SetFontSize(size float64)
	Text(body string, x, y int)
	MeasureText(body string) chart.Box
	SetTextRotation(radians float64)
	ClearTextRotation()
	Save(w io.Writer) error
}

// Format selects the image encoding of a surface
type Format string

const (
	PNG  Format = "png"
	SVG  Format = "svg"
	HTML Format = "html"
)

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, SVG, HTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid options: png, svg, html)", s)
	}
}

// Surface is a canvas together with its pixel size
type Surface struct {
	Canvas Canvas
	Width  int
	Height int
}

var (
	fontOnce    sync.Once
	defaultFont *truetype.Font
	fontErr     error
)

// Font returns the font every surface draws text with
func Font() (*truetype.Font, error) {
	fontOnce.Do(func() {
		defaultFont, fontErr = truetype.Parse(goregular.TTF)
	})
	return defaultFont, fontErr
}

// NewSurface wraps an existing canvas
func NewSurface(canvas Canvas, width, height int) (*Surface, error) {
	if canvas == nil || width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSurface, width, height)
	}
	font, err := Font()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	canvas.SetFont(font)
	return &Surface{Canvas: canvas, Width: width, Height: height}, nil
}

// NewImageSurface creates a go-chart backed surface in the given format
func NewImageSurface(format Format, width, height int) (*Surface, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSurface, width, height)
	}

	var provider chart.RendererProvider
	switch format {
	case PNG:
		provider = chart.PNG
	case SVG:
		provider = chart.SVG
	default:
		return nil, fmt.Errorf("format %s has no image renderer", format)
	}

	renderer, err := provider(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return NewSurface(renderer, width, height)
}

// Validate reports ErrInvalidSurface for a nil or empty surface
func (s *Surface) Validate() error {
	if s == nil || s.Canvas == nil || s.Width < 1 || s.Height < 1 {
		return ErrInvalidSurface
	}
	return nil
}

// Clear paints the whole surface white. Every render starts with it.
func (s *Surface) Clear() {
	s.Canvas.SetStrokeDashArray(nil)
	s.rect(0, 0, float64(s.Width), float64(s.Height), drawing.ColorWhite, nil)
}

// Save encodes the surface to w
func (s *Surface) Save(w io.Writer) error {
	return s.Canvas.Save(w)
}

// X maps a unit-space coordinate to a pixel column
func (s *Surface) X(u float64) float64 { return u * float64(s.Width) }

// Y maps a unit-space coordinate to a pixel row
func (s *Surface) Y(u float64) float64 { return u * float64(s.Height) }

func px(v float64) int {
	return int(math.Round(v))
}

// rect fills a rectangle and optionally strokes it with a 1px border
func (s *Surface) rect(x, y, w, h float64, fill drawing.Color, border *drawing.Color) {
	c := s.Canvas
	c.SetFillColor(fill)
	c.MoveTo(px(x), px(y))
	c.LineTo(px(x+w), px(y))
	c.LineTo(px(x+w), px(y+h))
	c.LineTo(px(x), px(y+h))
	c.LineTo(px(x), px(y))
	c.Close()
	if border == nil {
		c.Fill()
		return
	}
	c.SetStrokeColor(*border)
	c.SetStrokeWidth(1)
	c.FillStroke()
}

// strokeRect outlines a rectangle
func (s *Surface) strokeRect(x, y, w, h float64, color drawing.Color, width float64) {
	c := s.Canvas
	c.SetStrokeColor(color)
	c.SetStrokeWidth(width)
	c.MoveTo(px(x), px(y))
	c.LineTo(px(x+w), px(y))
	c.LineTo(px(x+w), px(y+h))
	c.LineTo(px(x), px(y+h))
	c.LineTo(px(x), px(y))
	c.Close()
	c.Stroke()
}

// line strokes a straight segment
func (s *Surface) line(x1, y1, x2, y2 float64, color drawing.Color, width float64) {
	c := s.Canvas
	c.SetStrokeColor(color)
	c.SetStrokeWidth(width)
	c.MoveTo(px(x1), px(y1))
	c.LineTo(px(x2), px(y2))
	c.Stroke()
}

// dashedLine strokes a segment with the given dash pattern
func (s *Surface) dashedLine(x1, y1, x2, y2 float64, color drawing.Color, width float64, dash []float64) {
	s.Canvas.SetStrokeDashArray(dash)
	s.line(x1, y1, x2, y2, color, width)
	s.Canvas.SetStrokeDashArray(nil)
}

// arrow draws a black line with a 10px head at (x2, y2)
func (s *Surface) arrow(x1, y1, x2, y2 float64) {
	const headLength = 10
	angle := math.Atan2(y2-y1, x2-x1)

	s.line(x1, y1, x2, y2, drawing.ColorBlack, 1)

	c := s.Canvas
	c.MoveTo(px(x2), px(y2))
	c.LineTo(px(x2-headLength*math.Cos(angle-math.Pi/6)), px(y2-headLength*math.Sin(angle-math.Pi/6)))
	c.MoveTo(px(x2), px(y2))
	c.LineTo(px(x2-headLength*math.Cos(angle+math.Pi/6)), px(y2-headLength*math.Sin(angle+math.Pi/6)))
	c.Stroke()
}

// ellipsePath starts a closed elliptical path around (cx, cy)
func (s *Surface) ellipsePath(cx, cy, rx, ry float64) {
	c := s.Canvas
	c.MoveTo(px(cx+rx), px(cy))
	c.ArcTo(px(cx), px(cy), rx, ry, 0, 2*math.Pi)
	c.Close()
}

// dot fills a circle
func (s *Surface) dot(cx, cy, r float64, fill drawing.Color) {
	s.Canvas.SetFillColor(fill)
	s.ellipsePath(cx, cy, r, r)
	s.Canvas.Fill()
}

// outlinedDot fills a circle and strokes its edge
func (s *Surface) outlinedDot(cx, cy, r float64, fill, stroke drawing.Color, width float64) {
	c := s.Canvas
	c.SetFillColor(fill)
	c.SetStrokeColor(stroke)
	c.SetStrokeWidth(width)
	s.ellipsePath(cx, cy, r, r)
	c.FillStroke()
}

// ring strokes a circle outline
func (s *Surface) ring(cx, cy, r float64, color drawing.Color, width float64) {
	s.ellipse(cx, cy, r, r, color, width, nil)
}

// ellipse strokes an ellipse outline, dashed when dash is non-nil
func (s *Surface) ellipse(cx, cy, rx, ry float64, color drawing.Color, width float64, dash []float64) {
	c := s.Canvas
	c.SetStrokeColor(color)
	c.SetStrokeWidth(width)
	c.SetStrokeDashArray(dash)
	s.ellipsePath(cx, cy, rx, ry)
	c.Stroke()
	c.SetStrokeDashArray(nil)
}

// polyline strokes a path through the given points
func (s *Surface) polyline(points []point, color drawing.Color, width float64) {
	if len(points) == 0 {
		return
	}
	c := s.Canvas
	c.SetStrokeColor(color)
	c.SetStrokeWidth(width)
	c.MoveTo(px(points[0].X), px(points[0].Y))
	for _, p := range points[1:] {
		c.LineTo(px(p.X), px(p.Y))
	}
	c.Stroke()
}

// Align is the horizontal anchor of a text run
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// text draws body with its baseline at y
func (s *Surface) text(body string, x, y, size float64, color drawing.Color, align Align) {
	c := s.Canvas
	c.SetFontSize(size)
	c.SetFontColor(color)
	box := c.MeasureText(body)
	switch align {
	case AlignCenter:
		x -= float64(box.Width()) / 2
	case AlignRight:
		x -= float64(box.Width())
	}
	c.Text(body, px(x), px(y))
}

// middleText draws body centred horizontally and vertically on (x, y)
func (s *Surface) middleText(body string, x, y, size float64, color drawing.Color) {
	c := s.Canvas
	c.SetFontSize(size)
	c.SetFontColor(color)
	box := c.MeasureText(body)
	c.Text(body, px(x-float64(box.Width())/2), px(y+float64(box.Height())/2))
}

// verticalText draws body rotated a quarter turn counter-clockwise, centred on (x, y)
func (s *Surface) verticalText(body string, x, y, size float64, color drawing.Color) {
	c := s.Canvas
	c.SetFontSize(size)
	c.SetFontColor(color)
	box := c.MeasureText(body)
	c.SetTextRotation(-math.Pi / 2)
	c.Text(body, px(x), px(y+float64(box.Width())/2))
	c.ClearTextRotation()
}

// node draws a white box with a black border and centred 12px label
func (s *Surface) node(cx, cy, w, h float64, label string) {
	border := drawing.ColorBlack
	s.rect(cx-w/2, cy-h/2, w, h, drawing.ColorWhite, &border)
	s.middleText(label, cx, cy, 12, drawing.ColorBlack)
}

// link draws the plain black connector used between nodes
func (s *Surface) link(x1, y1, x2, y2 float64) {
	s.line(x1, y1, x2, y2, drawing.ColorBlack, 1)
}

// arrowedAxes draws the X and Y axes shared by the chart renderers:
// X from 0.1W to 0.9W on the baseline, Y from the baseline up to 0.15H.
func (s *Surface) arrowedAxes(baseline float64) {
	left, right, top := s.X(0.1), s.X(0.9), s.Y(0.15)
	c := s.Canvas
	c.SetStrokeColor(drawing.ColorBlack)
	c.SetStrokeWidth(1)

	c.MoveTo(px(left), px(baseline))
	c.LineTo(px(right), px(baseline))
	c.LineTo(px(s.X(0.88)), px(baseline-5))
	c.MoveTo(px(right), px(baseline))
	c.LineTo(px(s.X(0.88)), px(baseline+5))
	c.Stroke()

	c.MoveTo(px(left), px(baseline))
	c.LineTo(px(left), px(top))
	c.LineTo(px(s.X(0.08)), px(s.Y(0.17)))
	c.MoveTo(px(left), px(top))
	c.LineTo(px(s.X(0.12)), px(s.Y(0.17)))
	c.Stroke()
}

// point is a pixel-space position
type point struct {
	X, Y float64
}
