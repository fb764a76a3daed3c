package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers bus hooks that log event activity. Ticks are
// logged at trace level since one fires every second per running countdown.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, _ any) {
		lvl := zerolog.DebugLevel
		if event == EventPomodoroTick {
			lvl = zerolog.TraceLevel
		}
		logger.WithLevel(lvl).Str("event", string(event)).Msg("event fired")
	})

	bus.OnSubscribe(func(event Event) {
		logger.Trace().Str("event", string(event)).Msg("subscriber registered")
	})

	bus.OnDrop(func(event Event, _ any) {
		lvl := zerolog.WarnLevel
		if lossy[event] {
			lvl = zerolog.DebugLevel
		}
		logger.WithLevel(lvl).Str("event", string(event)).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}
