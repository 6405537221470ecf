package column

import (
	"encoding/json"
	"strconv"

	"github.com/matzehuels/colgrid/pkg/errors"
)

// =============================================================================
// Identity
// =============================================================================

// Key identifies a column across layout passes. Keys must be unique across
// the whole tree.
type Key string

// KeySource reports which field a resolved key came from.
type KeySource int

const (
	KeyFromKey KeySource = iota
	KeyFromDataIndex
	KeyFromPosition
)

// ResolveKey applies the identity priority: key, then dataIndex, then the
// sibling position. Only [KeyFromPosition] is unstable. Positional keys of
// nested columns are prefixed with the parent key so that sibling lists at
// different levels cannot collide.
func ResolveKey(key Key, dataIndex string, parent Key, index int) (Key, KeySource) {
	if key != "" {
		return key, KeyFromKey
	}
	if dataIndex != "" {
		return Key(dataIndex), KeyFromDataIndex
	}
	pos := strconv.Itoa(index)
	if parent != "" {
		return parent + "." + Key(pos), KeyFromPosition
	}
	return Key(pos), KeyFromPosition
}

// =============================================================================
// Fixed
// =============================================================================

// Fixed pins a column to the leading or trailing edge.
type Fixed string

const (
	FixedNone  Fixed = ""
	FixedStart Fixed = "start"
	FixedEnd   Fixed = "end"
)

// ParseFixed parses "", "start" or "end".
func ParseFixed(s string) (Fixed, error) {
	switch f := Fixed(s); f {
	case FixedNone, FixedStart, FixedEnd:
		return f, nil
	}
	return FixedNone, errors.New(errors.ErrCodeInvalidInput, "fixed must be \"start\" or \"end\", got %q", s)
}

// UnmarshalText validates the value; it serves JSON and TOML.
func (f *Fixed) UnmarshalText(text []byte) error {
	v, err := ParseFixed(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for gopkg.in/yaml.v2.
func (f *Fixed) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return f.UnmarshalText([]byte(s))
}

// =============================================================================
// Callbacks
// =============================================================================

// CellProps are per-cell overrides returned by [CellFunc].
type CellProps struct {
	RowSpan *int `json:"rowSpan,omitempty"`
	ColSpan *int `json:"colSpan,omitempty"`
}

// Visible reports whether the cell is rendered at all.
func (p CellProps) Visible() bool {
	return SpanVisible(p.RowSpan) && SpanVisible(p.ColSpan)
}

// CellFunc computes body cell overrides for a record.
type CellFunc func(record any, rowIndex int) CellProps

// RenderFunc formats a body cell value.
type RenderFunc func(value, record any, rowIndex int) string

// SpanVisible reports whether a span override keeps the cell visible.
// An explicit span of 0 marks a position merged into a neighbor.
func SpanVisible(span *int) bool {
	return span == nil || *span != 0
}

// =============================================================================
// Spec
// =============================================================================

// Spec is a caller-authored column node. Leaves bind data, interior nodes
// only group headers.
type Spec struct {
	Key       Key        `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	DataIndex string     `json:"dataIndex,omitempty" yaml:"dataIndex,omitempty" toml:"dataIndex,omitempty"`
	Title     string     `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Width     *Width     `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Fixed     Fixed      `json:"fixed,omitempty" yaml:"fixed,omitempty" toml:"fixed,omitempty"`
	Hidden    bool       `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	ColSpan   *int       `json:"colSpan,omitempty" yaml:"colSpan,omitempty" toml:"colSpan,omitempty"`
	RowSpan   *int       `json:"rowSpan,omitempty" yaml:"rowSpan,omitempty" toml:"rowSpan,omitempty"`
	Align     string     `json:"align,omitempty" yaml:"align,omitempty" toml:"align,omitempty"`
	Ellipsis  bool       `json:"ellipsis,omitempty" yaml:"ellipsis,omitempty" toml:"ellipsis,omitempty"`
	ClassName string     `json:"className,omitempty" yaml:"className,omitempty" toml:"className,omitempty"`
	OnCell    CellFunc   `json:"-" yaml:"-" toml:"-"`
	Render    RenderFunc `json:"-" yaml:"-" toml:"-"`
	Children  []Spec     `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// =============================================================================
// State
// =============================================================================

// State is a node of the persisted column-state tree. After a layout pass
// every node either has children or is a leaf with a pixel width.
type State struct {
	Key       Key        `json:"key"`
	DataIndex string     `json:"dataIndex,omitempty"`
	Title     string     `json:"title,omitempty"`
	Width     *Width     `json:"width,omitempty"`
	Fixed     Fixed      `json:"fixed,omitempty"`
	Hidden    bool       `json:"hidden,omitempty"`
	ColSpan   *int       `json:"colSpan,omitempty"`
	RowSpan   *int       `json:"rowSpan,omitempty"`
	Align     string     `json:"align,omitempty"`
	Ellipsis  bool       `json:"ellipsis,omitempty"`
	ClassName string     `json:"className,omitempty"`
	OnCell    CellFunc   `json:"-"`
	Render    RenderFunc `json:"-"`

	ParentKey    Key  `json:"parentKey"`
	Depth        int  `json:"depth"`
	Order        int  `json:"order"`
	Visible      bool `json:"visible"`
	HasChildren  bool `json:"hasChildren"`
	Distribute   bool `json:"distribute"`
	UpdatedWidth bool `json:"updatedWidth"`

	Children []State `json:"children,omitempty"`
}

// UnmarshalJSON defaults Visible to true when the field is absent.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	p := plain{Visible: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = State(p)
	return nil
}

// IsLeaf reports whether the node carries data rather than grouping headers.
func (s *State) IsLeaf() bool {
	return !s.HasChildren && len(s.Children) == 0
}

// PixelWidth returns the resolved width, or 0 when unset or a percentage.
func (s *State) PixelWidth() float64 {
	if s.Width == nil || s.Width.Percent {
		return 0
	}
	return s.Width.Value
}

// =============================================================================
// Layout Output
// =============================================================================

// HeaderCell is one position of the grouped header grid.
type HeaderCell struct {
	Key           Key    `json:"key"`
	Title         string `json:"title,omitempty"`
	Column        *State `json:"-"`
	ColStart      int    `json:"colStart"`
	ColEnd        int    `json:"colEnd"`
	ColSpan       int    `json:"colSpan"`
	RowSpan       int    `json:"rowSpan"`
	HasSubColumns bool   `json:"hasSubColumns,omitempty"`
}

// Visible reports whether the cell occupies grid space.
func (c HeaderCell) Visible() bool {
	return c.ColSpan != 0 && c.RowSpan != 0
}

// StickyOffsets holds per-leaf offsets for fixed columns.
// Start[i] is the width of start-fixed leaves before i; End[i] the width of
// end-fixed leaves after i.
type StickyOffsets struct {
	Start            []float64 `json:"start"`
	End              []float64 `json:"end"`
	Widths           []float64 `json:"widths"`
	HasFixColumns    bool      `json:"hasFixColumns"`
	FixColumnsGapped bool      `json:"fixColumnsGapped"`
}
