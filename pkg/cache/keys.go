package cache

// Keyer builds cache keys.
type Keyer interface {
	// DiagramKey identifies a generated diagram by the hash of its ordered
	// input words and the generation options.
	DiagramKey(wordsHash string, opts DiagramKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a diagram document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DiagramKeyOpts are the generation options that change the result.
type DiagramKeyOpts struct {
	Algorithm      string `json:"algorithm"`
	CellsLimit     int    `json:"cells_limit"`
	MaxSmallForBig int    `json:"max_small_for_big"`
	Hub            bool   `json:"hub"`
}

// ArtifactKeyOpts are the rendering options that change an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Layout     string `json:"layout,omitempty"`
	Positions  bool   `json:"positions,omitempty"`
	Priorities bool   `json:"priorities,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey implements [Keyer].
func (DefaultKeyer) DiagramKey(wordsHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", wordsHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
