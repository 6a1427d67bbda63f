package analyzer

import "go-teeth-classifier/internal/strategy"

// AnalysisOptions configures how images are prepared for the classifier
type AnalysisOptions struct {
	// Interpolation names the resize strategy, see strategy.Names.
	Interpolation string

	// MaxWorkers bounds batch analysis; 0 uses one worker per CPU.
	MaxWorkers int

	// MaxImagePixels rejects uploads declaring more pixels; 0 disables the check.
	MaxImagePixels int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Interpolation:  strategy.CatmullRom,
		MaxWorkers:     0, // Use default CPU count
		MaxImagePixels: DefaultMaxImagePixels,
	}
}

// WithInterpolation returns options using the named resize strategy
func (opts AnalysisOptions) WithInterpolation(name string) AnalysisOptions {
	opts.Interpolation = name
	return opts
}

// WithMaxWorkers returns options with a custom batch worker count
func (opts AnalysisOptions) WithMaxWorkers(n int) AnalysisOptions {
	opts.MaxWorkers = n
	return opts
}

// WithMaxImagePixels returns options with a custom pixel limit
func (opts AnalysisOptions) WithMaxImagePixels(n int) AnalysisOptions {
	opts.MaxImagePixels = n
	return opts
}
