package cache

// Key namespaces.
const (
	heroPrefix     = "hero"
	artifactPrefix = "artifact"
)

// HeroKeyOpts distinguishes hero lookups for the same image.
type HeroKeyOpts struct {
	Locator string  // locator identity, e.g. the detector URL
	Seed    *[4]int // optional seed box as x1,y1,x2,y2
}

// ArtifactKeyOpts identifies one rendered format.
type ArtifactKeyOpts struct {
	FormatID   string
	Width      int
	Height     int
	Prominence float64
	Hero       *[4]int // resolved hero box, nil when none
	Overlays   string  // hash of the overlay inputs applied to this format
}

// Keyer generates cache keys. Implementations must be deterministic.
type Keyer interface {
	// HeroKey returns the key for a located hero box.
	HeroKey(imageHash string, opts HeroKeyOpts) string

	// ArtifactKey returns the key for a rendered PNG.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HeroKey implements [Keyer].
func (DefaultKeyer) HeroKey(imageHash string, opts HeroKeyOpts) string {
	return hashKey(heroPrefix, imageHash, opts.Locator, opts.Seed)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey(artifactPrefix, sourceHash, opts)
}

var _ Keyer = DefaultKeyer{}
