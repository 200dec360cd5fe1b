package matcher

const (
	// flatMeanTolerance decides whether two flat regions have the same value.
	flatMeanTolerance = 0.5

	// DefaultBackend is the pure-Go correlator name.
	DefaultBackend = "ncc"
)
