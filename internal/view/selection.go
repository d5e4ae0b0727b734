package view

// CountPointsIn counts non-decorative points inside rect.
func CountPointsIn(rect SelectionRect, points []Point) int {
	n := 0
	for i := range points {
		p := &points[i]
		if !p.Decorative && rect.Contains(p.X, p.Y) {
			n++
		}
	}
	return n
}

// PointsIn returns the non-decorative points inside rect, in original order.
func PointsIn(rect SelectionRect, points []Point) []Point {
	var out []Point
	for i := range points {
		p := points[i]
		if !p.Decorative && rect.Contains(p.X, p.Y) {
			out = append(out, p)
		}
	}
	return out
}

// EstimateStars converts a point count into real stars. No rounding happens
// here; callers floor when they commit to a discrete target.
func EstimateStars(count int, starsPerPoint float64) float64 {
	return float64(count) * starsPerPoint
}

// Selection summarises a committed rect against a view.
type Selection struct {
	Rect           SelectionRect `json:"rect"`
	Valid          bool          `json:"valid"`
	Points         int           `json:"points"`
	EstimatedStars float64       `json:"estimatedStars"`
	Exact          bool          `json:"exact"`
}

// Select evaluates rect against v. An invalid rect yields a zero selection.
func Select(v *ViewState, rect SelectionRect) Selection {
	sel := Selection{Rect: rect, Exact: v.StarsPerPoint == 1}
	if !rect.Valid() {
		return sel
	}
	sel.Valid = true
	sel.Points = CountPointsIn(rect, v.Points)
	sel.EstimatedStars = EstimateStars(sel.Points, v.StarsPerPoint)
	return sel
}
