package mapkit

import (
	"math"
	"strconv"
	"strings"
)

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p with both components multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: s * p.X, Y: s * p.Y}
}

// Len returns the Euclidean length of p.
func (p Point) Len() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Delta returns the vector that moves from to to.
func Delta(from, to Point) Point {
	return Point{X: to.X - from.X, Y: to.Y - from.Y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return Delta(a, b).Len()
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(v, lo))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finiteOr returns v, or fallback when v is NaN or infinite.
func finiteOr(v, fallback float64) float64 {
	if finite(v) {
		return v
	}
	return fallback
}

// ParseFloat parses the leading decimal number of s ("12.5px" yields 12.5).
// Empty or malformed input yields fallback; the result is never NaN or Inf.
func ParseFloat(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' ||
			((c == 'e' || c == 'E') && end > 0 && end+1 < len(s) && isExponentTail(s[end+1])) {
			end++
			continue
		}
		break
	}
	for end > 0 {
		v, err := strconv.ParseFloat(s[:end], 64)
		if err == nil {
			return finiteOr(v, fallback)
		}
		end--
	}
	return fallback
}

func isExponentTail(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+'
}

// ParseInt parses the leading integer of s, truncating any fraction.
// Empty or malformed input yields fallback.
func ParseInt(s string, fallback int) int {
	v := ParseFloat(s, math.NaN())
	if math.IsNaN(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return fallback
	}
	return int(v)
}

// ParseScale extracts s from a transform value of the form "scale(s)".
// Missing or malformed values yield 1.
func ParseScale(transform string) float64 {
	i := strings.Index(transform, "scale(")
	if i < 0 {
		return 1
	}
	rest := transform[i+len("scale("):]
	j := strings.IndexByte(rest, ')')
	if j < 0 {
		return 1
	}
	arg := strings.TrimSpace(rest[:j])
	if k := strings.IndexByte(arg, ','); k >= 0 {
		arg = arg[:k]
	}
	return ParseFloat(arg, 1)
}

// formatNumber renders v in its shortest exact decimal form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatPx renders v as a CSS-style pixel length.
func formatPx(v float64) string {
	return formatNumber(v) + "px"
}
