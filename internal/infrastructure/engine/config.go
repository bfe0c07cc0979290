// Package engine resolves class list entries against their class files.
package engine

import "runtime"

// Concurrency constants for parallel resolution.
const (
	// MinConcurrentResolutions is the minimum number of concurrent class
	// resolutions, ensuring reasonable parallelism on single-core systems.
	MinConcurrentResolutions = 4

	// MaxConcurrentResolutions caps the pool so that archive handles and
	// open files stay bounded.
	MaxConcurrentResolutions = 64
)

// Config controls resolution behavior.
type Config struct {
	Classpath      []string
	MaxConcurrency int
}

// DefaultConfig returns defaults for parallel resolution.
func DefaultConfig() Config {
	return Config{MaxConcurrency: clampWorkers(runtime.NumCPU())}
}

func clampWorkers(n int) int {
	if n < MinConcurrentResolutions {
		return MinConcurrentResolutions
	}
	if n > MaxConcurrentResolutions {
		return MaxConcurrentResolutions
	}
	return n
}
