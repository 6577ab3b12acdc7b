package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/transform"
)

// ValidationError reports a persisted record that cannot be turned into an
// element.
type ValidationError struct {
	Index int
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Record is the portable form of an element. Handles are stored as
// strings and rebuilt on load.
type Record struct {
	Shape           string                 `json:"shape"`
	Color           string                 `json:"color"`
	Eraser          bool                   `json:"eraser,omitempty"`
	Fill            bool                   `json:"fill,omitempty"`
	FillRule        string                 `json:"fillRule,omitempty"`
	Line            *LineRecord            `json:"line,omitempty"`
	Dash            *DashRecord            `json:"dash,omitempty"`
	Text            *string                `json:"text,omitempty"`
	CursorPosition  *int                   `json:"cursorPosition,omitempty"`
	TextAlignment   string                 `json:"textAlignment,omitempty"`
	Font            string                 `json:"font,omitempty"`
	Image           string                 `json:"image,omitempty"`
	Colored         bool                   `json:"colored,omitempty"`
	Points          [][2]float64           `json:"points"`
	Transformations []TransformationRecord `json:"transformations,omitempty"`
}

type LineRecord struct {
	Width float64 `json:"lineWidth"`
	Join  string  `json:"lineJoin"`
	Cap   string  `json:"lineCap"`
}

type DashRecord struct {
	Active bool       `json:"active"`
	Array  [2]float64 `json:"array"`
	Offset float64    `json:"offset"`
}

// TransformationRecord holds the committed parameters of one
// transformation. Only the fields of its kind are set.
type TransformationRecord struct {
	Type     string      `json:"type"`
	Anchor   [2]float64  `json:"anchor"`
	Undoable bool        `json:"undoable"`
	Offset   *[2]float64 `json:"offset,omitempty"`
	Angle    float64     `json:"angle,omitempty"`
	Center   *[2]float64 `json:"center,omitempty"`
	Scale    *[2]float64 `json:"scale,omitempty"`
	Axis     *[2]float64 `json:"axis,omitempty"`
}

var fillRuleNames = []string{"nonzero", "evenodd"}

func pair(p geom.Point) [2]float64 { return [2]float64{p.X, p.Y} }

func pairPtr(p geom.Point) *[2]float64 {
	v := pair(p)
	return &v
}

func point(v [2]float64) geom.Point { return geom.Pt(v[0], v[1]) }

// Record returns the portable form of e. Transformations still being
// performed are left out.
func (e *Element) Record() Record {
	r := Record{
		Shape:  e.Shape.String(),
		Color:  e.Color.Portable(),
		Eraser: e.Eraser,
		Points: make([][2]float64, len(e.Points)),
	}
	for i, p := range e.Points {
		r.Points[i] = pair(p)
	}
	switch e.Shape {
	case Text:
		content, cursor := e.Text.Content, e.Text.Cursor
		r.Text, r.CursorPosition = &content, &cursor
		r.TextAlignment = e.Text.Align.String()
		r.Font = e.Text.Font.String()
	case Image:
		r.Image = e.Image.Ref.Path
		r.Colored = e.Image.Tinted
	default:
		r.Fill = e.Fill
		r.FillRule = fillRuleNames[e.FillRule]
		r.Line = &LineRecord{Width: e.Line.Width, Join: e.Line.Join.String(), Cap: e.Line.Cap.String()}
		r.Dash = &DashRecord{Active: e.Dash.Active, Array: e.Dash.Array, Offset: e.Dash.Offset}
	}
	for _, t := range e.ActiveTransformations() {
		if t.Active {
			continue
		}
		r.Transformations = append(r.Transformations, transformationRecord(t))
	}
	return r
}

func transformationRecord(t *transform.Transformation) TransformationRecord {
	tr := TransformationRecord{Type: t.Kind.String(), Anchor: pair(t.Anchor), Undoable: t.Undoable}
	switch t.Kind {
	case transform.Translation:
		tr.Offset = pairPtr(t.Offset)
	case transform.Rotation:
		tr.Angle = t.Angle
	case transform.ScalePreserve, transform.Stretch:
		tr.Center = pairPtr(t.Center)
		tr.Scale = &[2]float64{t.ScaleX, t.ScaleY}
	case transform.Reflection:
		tr.Axis = pairPtr(t.Axis)
	}
	return tr
}

// Resolver rebuilds handles from their portable strings. Equal strings
// resolve to the same handle within one load.
type Resolver struct {
	DefaultFont string
	Images      func(path string) *ImageRef

	colors map[string]*Color
	fonts  map[string]*Font
	images map[string]*ImageRef
}

func (res *Resolver) color(s string) (*Color, error) {
	if c, ok := res.colors[s]; ok {
		return c, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return nil, err
	}
	if res.colors == nil {
		res.colors = make(map[string]*Color)
	}
	res.colors[s] = c
	return c, nil
}

func (res *Resolver) font(s string) (*Font, error) {
	if s == "" {
		s = res.DefaultFont
	}
	if s == "" {
		s = "Sans"
	}
	if f, ok := res.fonts[s]; ok {
		return f, nil
	}
	f, err := ParseFont(s)
	if err != nil {
		return nil, err
	}
	if res.fonts == nil {
		res.fonts = make(map[string]*Font)
	}
	res.fonts[s] = f
	return f, nil
}

func (res *Resolver) image(path string) *ImageRef {
	if r, ok := res.images[path]; ok {
		return r
	}
	var r *ImageRef
	if res.Images != nil {
		r = res.Images(path)
	}
	if r == nil {
		r = NewImageRef(path)
	}
	if res.images == nil {
		res.images = make(map[string]*ImageRef)
	}
	res.images[path] = r
	return r
}

// FromRecord rebuilds the element stored in r. index is only used in
// errors.
func FromRecord(r Record, index int, res *Resolver) (*Element, error) {
	if res == nil {
		res = &Resolver{}
	}
	invalid := func(field string, err error) error {
		return &ValidationError{Index: index, Field: field, Err: err}
	}
	shape, err := ParseShape(r.Shape)
	if err != nil {
		return nil, invalid("shape", err)
	}
	if len(r.Points) < shape.MinPoints() {
		return nil, invalid("points", fmt.Errorf("%s needs %d points, got %d", shape, shape.MinPoints(), len(r.Points)))
	}
	col, err := res.color(r.Color)
	if err != nil {
		return nil, invalid("color", err)
	}
	a := Attrs{Shape: shape, Color: col, Eraser: r.Eraser, Fill: r.Fill}
	a.Points = make([]geom.Point, len(r.Points))
	for i, p := range r.Points {
		a.Points[i] = point(p)
	}
	if r.FillRule != "" {
		i, ok := lookupName(fillRuleNames, r.FillRule)
		if !ok {
			return nil, invalid("fillRule", fmt.Errorf("unknown fill rule %q", r.FillRule))
		}
		a.FillRule = FillRule(i)
	}
	if r.Line != nil {
		a.Line.Width = r.Line.Width
		j, ok := lookupName(joinNames[:], r.Line.Join)
		if !ok {
			return nil, invalid("line.lineJoin", fmt.Errorf("unknown line join %q", r.Line.Join))
		}
		c, ok := lookupName(capNames[:], r.Line.Cap)
		if !ok {
			return nil, invalid("line.lineCap", fmt.Errorf("unknown line cap %q", r.Line.Cap))
		}
		a.Line.Join, a.Line.Cap = LineJoin(j), LineCap(c)
	}
	if r.Dash != nil {
		a.Dash = Dash{Active: r.Dash.Active, Array: r.Dash.Array, Offset: r.Dash.Offset}
	}
	switch shape {
	case Text:
		if r.Text == nil {
			return nil, invalid("text", errors.New("missing text content"))
		}
		font, err := res.font(r.Font)
		if err != nil {
			return nil, invalid("font", err)
		}
		t := &TextPayload{Content: *r.Text, Cursor: -1, Font: font}
		if r.CursorPosition != nil {
			t.Cursor = *r.CursorPosition
		}
		if r.TextAlignment != "" {
			i, ok := lookupName(alignNames[:], r.TextAlignment)
			if !ok {
				return nil, invalid("textAlignment", fmt.Errorf("unknown alignment %q", r.TextAlignment))
			}
			t.Align = TextAlign(i)
		}
		a.Text = t
	case Image:
		if r.Image == "" {
			return nil, invalid("image", errors.New("missing image reference"))
		}
		a.Image = &ImagePayload{Ref: res.image(r.Image), Tinted: r.Colored}
	}
	el, err := NewElement(a)
	if err != nil {
		return nil, invalid("shape", err)
	}
	ts := make([]*transform.Transformation, 0, len(r.Transformations))
	for i, tr := range r.Transformations {
		t, err := fromTransformationRecord(tr)
		if err != nil {
			return nil, invalid(fmt.Sprintf("transformations[%d]", i), err)
		}
		ts = append(ts, t)
	}
	el.setTransformations(ts)
	return el, nil
}

func fromTransformationRecord(tr TransformationRecord) (*transform.Transformation, error) {
	kind, err := transform.ParseKind(tr.Type)
	if err != nil {
		return nil, err
	}
	t := &transform.Transformation{Kind: kind, Anchor: point(tr.Anchor), Undoable: tr.Undoable, ScaleX: 1, ScaleY: 1}
	switch kind {
	case transform.Translation:
		if tr.Offset == nil {
			return nil, errors.New("translation without offset")
		}
		t.Offset = point(*tr.Offset)
	case transform.Rotation:
		t.Angle = tr.Angle
	case transform.ScalePreserve, transform.Stretch:
		if tr.Center == nil || tr.Scale == nil {
			return nil, fmt.Errorf("%s without center or scale", kind)
		}
		t.Center = point(*tr.Center)
		t.ScaleX, t.ScaleY = tr.Scale[0], tr.Scale[1]
	case transform.Reflection:
		if tr.Axis != nil {
			t.Axis = point(*tr.Axis)
		}
	}
	return t, nil
}

// Encode writes a drawing in the file layout: one record per element,
// records separated by a blank line. An empty drawing is "[]".
func Encode(elements []*Element) ([]byte, error) {
	if len(elements) == 0 {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("[\n  ")
	for i, el := range elements {
		b, err := json.Marshal(el.Record())
		if err != nil {
			return nil, fmt.Errorf("encode element %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteString(",\n\n  ")
		}
		buf.Write(b)
	}
	buf.WriteString("\n]")
	return buf.Bytes(), nil
}

// Decode reads a drawing. An invalid record aborts the load unless skip is
// set; skipped records are reported together in the returned error, next
// to the elements that could be read.
func Decode(data []byte, skip bool, res *Resolver) ([]*Element, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode drawing: %w", err)
	}
	if res == nil {
		res = &Resolver{}
	}
	elements := make([]*Element, 0, len(records))
	var errs []error
	for i, r := range records {
		el, err := FromRecord(r, i, res)
		if err != nil {
			if !skip {
				return nil, err
			}
			logging.Logger().Warn("skipping invalid record", "error", err)
			errs = append(errs, err)
			continue
		}
		elements = append(elements, el)
	}
	return elements, errors.Join(errs...)
}
