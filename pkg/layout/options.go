package layout

// Default placeholder widths for columns without an explicit width.
const (
	DefaultTopMinWidth  = 100
	DefaultLeafMinWidth = 80
)

// Options configures a layout pass.
type Options struct {
	// TopMinWidth is the placeholder width of width-less leaves at depth 0.
	TopMinWidth float64
	// LeafMinWidth is the placeholder width of width-less nested leaves.
	LeafMinWidth float64
}

// Option configures [Build].
type Option func(*Options)

// WithMinWidths overrides the placeholder widths.
func WithMinWidths(top, leaf float64) Option {
	return func(o *Options) {
		if top > 0 {
			o.TopMinWidth = top
		}
		if leaf > 0 {
			o.LeafMinWidth = leaf
		}
	}
}

// NewOptions applies opts on top of the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{TopMinWidth: DefaultTopMinWidth, LeafMinWidth: DefaultLeafMinWidth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) placeholder(depth int) float64 {
	if depth == 0 {
		return o.TopMinWidth
	}
	return o.LeafMinWidth
}
