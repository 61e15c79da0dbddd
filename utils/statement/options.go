package statement

// Tiers are the fixed confidences assigned per extraction strategy.
type Tiers struct {
	CardLast4   float64
	CardLast2   float64
	Amount      float64
	TextDate    float64
	LayoutDate  float64
	SanityFloor float64
}

// Options tune the extractor.
type Options struct {
	// WindowChars is how many characters after a label are searched for its value.
	WindowChars int
	// SnippetChars caps the evidence snippet length.
	SnippetChars int
	Tiers        Tiers
}

const (
	DefaultWindowChars  = 220
	DefaultSnippetChars = 180

	// card context starts this many characters before the label
	cardLeadChars = 30

	extendedWindowChars = 500
	nearestDateMaxChars = 1000
)

func DefaultTiers() Tiers {
	return Tiers{
		CardLast4:   0.95,
		CardLast2:   0.85,
		Amount:      0.9,
		TextDate:    0.9,
		LayoutDate:  0.92,
		SanityFloor: 0.85,
	}
}

func DefaultOptions() Options {
	return Options{
		WindowChars:  DefaultWindowChars,
		SnippetChars: DefaultSnippetChars,
		Tiers:        DefaultTiers(),
	}
}

// withDefaults fills zero values from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WindowChars <= 0 {
		o.WindowChars = d.WindowChars
	}
	if o.SnippetChars <= 0 {
		o.SnippetChars = d.SnippetChars
	}
	if o.Tiers == (Tiers{}) {
		o.Tiers = d.Tiers
	}
	return o
}
