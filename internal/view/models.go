package view

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// RootStarsPerPoint is the symbolic scale of the whole-galaxy view.
	RootStarsPerPoint = 100000
	// MaxLevels includes the literal level.
	MaxLevels = 7
	// MinSelectionSize is the smallest width or height of a usable selection.
	MinSelectionSize = 6
)

type Phase string

const (
	PhaseRoot      Phase = "root"
	PhaseSymbolic  Phase = "symbolic"
	PhasePreFinal  Phase = "pre_final"
	PhaseLiteral   Phase = "literal"
	PhaseFinalized Phase = "finalized"
)

// Color serialises as a CSS rgba() string for the rendering sink.
type Color struct {
	R, G, B uint8
	A       float64
}

func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', 3, 64))
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	var r, g, b int
	var a float64
	if _, err := fmt.Sscanf(string(text), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
		return fmt.Errorf("invalid color %q: %w", text, err)
	}
	*c = Color{R: uint8(r), G: uint8(g), B: uint8(b), A: a}
	return nil
}

// Point is one rendered sample. Decorative points are background texture and
// never count toward a star estimate.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	Alpha      float64 `json:"alpha"`
	Color      Color   `json:"color"`
	Decorative bool    `json:"decorative,omitempty"`
}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// MinorHalf is half of the smaller viewport dimension.
func (v Viewport) MinorHalf() float64 {
	return math.Min(v.Width, v.Height) / 2
}

// SelectionRect is a rectangle in the current view's coordinate space.
type SelectionRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizeRect builds a rect from two drag corners in any order.
func NormalizeRect(x1, y1, x2, y2 float64) SelectionRect {
	return SelectionRect{
		X:      math.Min(x1, x2),
		Y:      math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

func (r SelectionRect) Valid() bool {
	return r.Width >= MinSelectionSize && r.Height >= MinSelectionSize
}

// Contains uses inclusive bounds on all four edges.
func (r SelectionRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// ViewState is one resolution level. It is never mutated after creation.
type ViewState struct {
	ZoomLevel     int      `json:"zoomLevel"`
	StarsPerPoint float64  `json:"starsPerPoint"`
	IsLiteral     bool     `json:"isLiteral"`
	GalaxyType    string   `json:"galaxyType"`
	Viewport      Viewport `json:"viewport"`
	// Glow tints the galaxy core when the view is rasterised. Root views only.
	Glow   *Color  `json:"glow,omitempty"`
	Points []Point `json:"points"`
}

func (v *ViewState) Phase() Phase {
	switch {
	case v.IsLiteral:
		return PhaseLiteral
	case v.StarsPerPoint == 1:
		return PhasePreFinal
	case v.ZoomLevel == 0:
		return PhaseRoot
	default:
		return PhaseSymbolic
	}
}

// StarPoints counts the points that stand for stars.
func (v *ViewState) StarPoints() int {
	n := 0
	for i := range v.Points {
		if !v.Points[i].Decorative {
			n++
		}
	}
	return n
}

// TotalStars is the number of real stars the whole view represents.
func (v *ViewState) TotalStars() float64 {
	return EstimateStars(v.StarPoints(), v.StarsPerPoint)
}
