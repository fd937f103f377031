package layout

// Options are the simulation tunables. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	MinSpacing       float64 `json:"min_spacing" yaml:"min_spacing" koanf:"min_spacing"`
	Repulsion        float64 `json:"repulsion" yaml:"repulsion" koanf:"repulsion"`
	SpringLength     float64 `json:"spring_length" yaml:"spring_length" koanf:"spring_length"`
	SpringWeight     float64 `json:"spring_weight" yaml:"spring_weight" koanf:"spring_weight"`
	MaxIterations    int     `json:"max_iterations" yaml:"max_iterations" koanf:"max_iterations"`
	AlphaDecay       float64 `json:"alpha_decay" yaml:"alpha_decay" koanf:"alpha_decay"`
	AlphaMin         float64 `json:"alpha_min" yaml:"alpha_min" koanf:"alpha_min"`
	VelocityDamping  float64 `json:"velocity_damping" yaml:"velocity_damping" koanf:"velocity_damping"`
	Padding          float64 `json:"padding" yaml:"padding" koanf:"padding"`
	Gravity          float64 `json:"gravity" yaml:"gravity" koanf:"gravity"`
	ReheatIterations int     `json:"reheat_iterations" yaml:"reheat_iterations" koanf:"reheat_iterations"`

	// Seed fixes the placement jitter. Zero seeds from the clock.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty" koanf:"seed"`
}

// DefaultOptions returns the stock tunables.
func DefaultOptions() Options {
	return Options{
		MinSpacing:       120,
		Repulsion:        25000,
		SpringLength:     150,
		SpringWeight:     25,
		MaxIterations:    300,
		AlphaDecay:       0.01,
		AlphaMin:         0.1,
		VelocityDamping:  0.75,
		Padding:          80,
		Gravity:          0.001,
		ReheatIterations: 60,
	}
}

// Fixed force coefficients.
const (
	hardRepulsionGain = 5.0
	springStiffness   = 0.3
	velocityGain      = 0.2
	jitterFraction    = 0.15
	distanceFloor     = 0.1
	coincident        = 1e-6
)
