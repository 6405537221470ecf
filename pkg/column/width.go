package column

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/colgrid/pkg/errors"
)

// Width is a column width: absolute pixels or a percentage of the container.
type Width struct {
	Value   float64
	Percent bool
}

// Px returns a pixel width.
func Px(v float64) *Width { return &Width{Value: v} }

// Pct returns a percentage width.
func Pct(v float64) *Width { return &Width{Value: v, Percent: true} }

// ParseWidth parses "120", "80.5" or "20%".
func ParseWidth(s string) (Width, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := errors.ParsePercent(s)
		if err != nil {
			return Width{}, err
		}
		return Width{Value: v, Percent: true}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Width{}, errors.New(errors.ErrCodeInvalidWidth, "width must be a pixel number or \"<number>%%\", got %q", s)
	}
	if err := errors.ValidatePixels(v); err != nil {
		return Width{}, err
	}
	return Width{Value: v}, nil
}

// Resolve converts the width to pixels. Percentages are taken of the
// container width and rounded to two decimals.
func (w Width) Resolve(containerWidth float64) float64 {
	if !w.Percent {
		return w.Value
	}
	return Round2(w.Value / 100 * containerWidth)
}

// String formats the width the way it is encoded.
func (w Width) String() string {
	v := strconv.FormatFloat(w.Value, 'f', -1, 64)
	if w.Percent {
		return v + "%"
	}
	return v
}

// MarshalJSON encodes pixels as a number and percentages as "<number>%".
func (w Width) MarshalJSON() ([]byte, error) {
	if w.Percent {
		return json.Marshal(w.String())
	}
	return json.Marshal(w.Value)
}

// UnmarshalJSON accepts a number or a width string.
func (w *Width) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWidth, err, "decode width")
	}
	return w.decode(raw)
}

// UnmarshalYAML implements yaml.Unmarshaler for gopkg.in/yaml.v2.
func (w *Width) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWidth, err, "decode width")
	}
	return w.decode(raw)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (w *Width) UnmarshalTOML(raw any) error {
	return w.decode(raw)
}

func (w *Width) decode(raw any) error {
	var px float64
	switch v := raw.(type) {
	case string:
		parsed, err := ParseWidth(v)
		if err != nil {
			return err
		}
		*w = parsed
		return nil
	case float64:
		px = v
	case float32:
		px = float64(v)
	case int:
		px = float64(v)
	case int64:
		px = float64(v)
	case uint64:
		px = float64(v)
	default:
		return errors.New(errors.ErrCodeInvalidWidth, "unsupported width value %v (%T)", raw, raw)
	}
	if err := errors.ValidatePixels(px); err != nil {
		return err
	}
	*w = Width{Value: px}
	return nil
}

// Round2 rounds v to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
