package mapkit

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownElement is reported for markup elements that are not circle,
// rect or polygon. Such elements are skipped.
var ErrUnknownElement = errors.New("mapkit: unknown highlight element")

var geometryAttrs = map[ShapeKind][]string{
	ShapeCircle:  {"cx", "cy", "r"},
	ShapeRect:    {"x", "y", "width", "height"},
	ShapePolygon: {"points"},
}

// ParseHighlights reads a fragment of circle, rect and polygon elements.
// Unknown top-level elements are skipped and reported in the returned error
// together with any syntax error; every shape read before a syntax error is
// returned. Malformed numbers read as 0. Attribute prefixes are kept as
// written.
func ParseHighlights(markup string) ([]*Shape, error) {
	d := xml.NewDecoder(strings.NewReader(markup))

	var shapes []*Shape
	var errs []error
	depth := 0
	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("parse highlights: %w", err))
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > 1 {
				continue
			}
			if sh := shapeFromElement(t); sh != nil {
				shapes = append(shapes, sh)
			} else {
				errs = append(errs, fmt.Errorf("%w: <%s>", ErrUnknownElement, t.Name.Local))
			}
		case xml.EndElement:
			depth--
		}
	}
	return shapes, errors.Join(errs...)
}

func shapeFromElement(el xml.StartElement) *Shape {
	attr := func(name string) string {
		for _, a := range el.Attr {
			if a.Name.Local == name {
				return a.Value
			}
		}
		return ""
	}
	var sh *Shape
	switch strings.ToLower(el.Name.Local) {
	case "circle":
		sh = NewCircleShape(Pt(ParseFloat(attr("cx"), 0), ParseFloat(attr("cy"), 0)), ParseFloat(attr("r"), 0))
	case "rect":
		sh = NewRectShape(Rect{
			X:      ParseFloat(attr("x"), 0),
			Y:      ParseFloat(attr("y"), 0),
			Width:  ParseFloat(attr("width"), 0),
			Height: ParseFloat(attr("height"), 0),
		})
	case "polygon":
		sh = NewPolygonShape(parsePoints(attr("points")))
	default:
		return nil
	}
	skip := geometryAttrs[sh.Kind]
	for _, a := range el.Attr {
		if !containsName(skip, a.Name.Local) {
			sh.Attrs = append(sh.Attrs, a)
		}
	}
	return sh
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// parsePoints reads a polygon point list: numbers separated by commas or
// whitespace, taken in pairs. A trailing odd number is dropped.
func parsePoints(s string) []Point {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	pts := make([]Point, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		pts = append(pts, Pt(ParseFloat(fields[i], 0), ParseFloat(fields[i+1], 0)))
	}
	return pts
}

func formatPoints(pts []Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatNumber(p.X))
		b.WriteByte(',')
		b.WriteString(formatNumber(p.Y))
	}
	return b.String()
}

// FormatHighlights writes shapes as a markup fragment, one element per line.
// Box shapes are not highlights and are left out. Class attributes, which
// carry selection decoration, are dropped.
func FormatHighlights(shapes []*Shape) string {
	var lines []string
	for _, sh := range shapes {
		if line, ok := formatShape(sh); ok {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func formatShape(sh *Shape) (string, bool) {
	var b strings.Builder
	writeAttr := func(name, value string) {
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		xml.EscapeText(&b, []byte(value))
		b.WriteByte('"')
	}
	b.WriteByte('<')
	b.WriteString(sh.Kind.String())
	switch sh.Kind {
	case ShapeCircle:
		writeAttr("cx", formatNumber(sh.Center.X))
		writeAttr("cy", formatNumber(sh.Center.Y))
		writeAttr("r", formatNumber(sh.Radius))
	case ShapeRect:
		writeAttr("x", formatNumber(sh.Rect.X))
		writeAttr("y", formatNumber(sh.Rect.Y))
		writeAttr("width", formatNumber(sh.Rect.Width))
		writeAttr("height", formatNumber(sh.Rect.Height))
	case ShapePolygon:
		writeAttr("points", formatPoints(sh.Points))
	default:
		return "", false
	}
	for _, a := range sh.Attrs {
		if a.Name.Local == "class" {
			continue
		}
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + name
		}
		writeAttr(name, a.Value)
	}
	b.WriteString("></")
	b.WriteString(sh.Kind.String())
	b.WriteByte('>')
	return b.String(), true
}
