package variant

// EngineConfig contains tunables for the combination engine.
type EngineConfig struct {
	// Combination count above which generation attaches a non-fatal warning.
	// Generation always completes; the warning only drives a UI advisory.
	ExplosionWarnThreshold int

	// Hard cap on attributes considered per category. Zero means no cap.
	MaxAttributes int
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ExplosionWarnThreshold: 100,
		MaxAttributes:          0,
	}
}
