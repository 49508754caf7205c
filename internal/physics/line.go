package physics

import "math"

// Line is a static segment obstacle. Width is the full thickness.
type Line struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
	Width  float64 `json:"width"`
}

func NewLine(x1, y1, x2, y2, width float64) Line {
	return Line{StartX: x1, StartY: y1, EndX: x2, EndY: y2, Width: width}
}

// ClosestPoint returns the point on the segment nearest to (x, y)
func (l Line) ClosestPoint(x, y float64) (float64, float64) {
	ex := l.EndX - l.StartX
	ey := l.EndY - l.StartY
	lengthSq := ex*ex + ey*ey
	if lengthSq == 0 {
		return l.StartX, l.StartY
	}
	t := clamp(((x-l.StartX)*ex+(y-l.StartY)*ey)/lengthSq, 0, 1)
	return l.StartX + t*ex, l.StartY + t*ey
}

// Distance returns the distance from (x, y) to the segment
func (l Line) Distance(x, y float64) float64 {
	cx, cy := l.ClosestPoint(x, y)
	return math.Hypot(x-cx, y-cy)
}

// CheckCollision reports whether the joint touches the thick segment.
// Detection only: the joint is not modified.
func (l Line) CheckCollision(j Joint) bool {
	return l.Distance(j.X, j.Y) < j.Size+l.Width/2
}

// Length returns the segment length
func (l Line) Length() float64 {
	return math.Hypot(l.EndX-l.StartX, l.EndY-l.StartY)
}
