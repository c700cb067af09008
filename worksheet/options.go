package worksheet

// Options configures a single Process invocation. All fields have usable
// zero values; DefaultOptions fills in the recommended ones.
type Options struct {
	// MaxColors is K, the palette size ceiling. Recommended range [2,128];
	// the downstream painting UI assumes at most ~64. Zero means 48.
	MaxColors int

	// QuantizeStrategy selects how stage 1 chooses centroids. The zero
	// value selects the spec-exact random-init k-means strategy.
	QuantizeStrategy string

	// Seed, when non-nil, makes quantization reproducible across runs by
	// seeding the random source k-means init draws from. Nil means the
	// processor is nondeterministic by design (spec.md §4.1).
	Seed *int64
}

const (
	// StrategyKMeans is the default, spec-exact quantizer (random init,
	// ≤10 passes, componentwise integer mean).
	StrategyKMeans = "kmeans"
	// StrategyLibKMeans seeds centroids via dominant-color/Lab diversity
	// selection and refines them with github.com/muesli/kmeans.
	StrategyLibKMeans = "libkmeans"
	// StrategyMedianCut wraps github.com/carbocation/go-quantize.
	StrategyMedianCut = "mediancut"
)

// DefaultOptions returns Options with MaxColors=48 and the spec-exact
// k-means quantizer, matching spec.md §6's recommended default.
func DefaultOptions() Options {
	return Options{
		MaxColors:        48,
		QuantizeStrategy: StrategyKMeans,
	}
}

// Resolve fills zero-valued fields with their defaults, in place.
func (o *Options) Resolve() {
	if o.MaxColors == 0 {
		o.MaxColors = 48
	}
	if o.QuantizeStrategy == "" {
		o.QuantizeStrategy = StrategyKMeans
	}
}
