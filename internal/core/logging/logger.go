package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field that names the emitting component.
const ComponentKey = "component"

// Component derives a logger for name from the global logger.
func Component(name string) zerolog.Logger {
	return For(log.Logger, name)
}

// For derives a logger for name from an injected parent logger.
func For(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str(ComponentKey, name).Logger()
}
