package empic2d

import "fmt"

// ConfigError reports an invalid simulation construction argument (nx,
// box or dt) rejected by NewSimulation before any step runs. Surfaced at
// construction; the simulation never starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("empic2d: invalid %s: %s", e.Field, e.Reason)
}

func configError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
