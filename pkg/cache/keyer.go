package cache

// FormatKeyOpts are the settings that change a formatting outcome.
type FormatKeyOpts struct {
	Operation string `json:"op"`
	Columns   string `json:"columns"`
	Width     int    `json:"width,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// FormatKey returns the key of the outcome of formatting content with opts.
	FormatKey(contentHash string, opts FormatKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FormatKey returns "fmt:" followed by a hash of the content hash and opts.
func (DefaultKeyer) FormatKey(contentHash string, opts FormatKeyOpts) string {
	return hashKey("fmt", contentHash, opts)
}
