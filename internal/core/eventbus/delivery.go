package eventbus

import "time"

// DefaultPublishWait is how long a publisher waits for buffer space before a
// lossless event is dropped.
const DefaultPublishWait = 5 * time.Second

// lossy events are dropped immediately when the buffer is full. Ticks repeat
// every second, so a missed one is superseded by the next.
var lossy = map[Event]bool{
	EventPomodoroTick: true,
}

// SetPublishWait changes how long lossless publishes wait for buffer space.
// Call it before publishing.
func (bus *EventBus) SetPublishWait(d time.Duration) {
	bus.publishWait = d
}

// send enqueues an event and fires hooks. Used by generated Publish* methods.
// A full buffer drops lossy events at once; any other event blocks the
// publisher for up to publishWait.
func (bus *EventBus) send(event Event, payload any) {
	env := envelope{event: event, payload: payload}

	select {
	case bus.ch <- env:
		bus.runOnPublish(event, payload)
		return
	default:
	}

	if !lossy[event] && bus.publishWait > 0 {
		timer := time.NewTimer(bus.publishWait)
		defer timer.Stop()

		select {
		case bus.ch <- env:
			bus.runOnPublish(event, payload)
			return
		case <-timer.C:
		}
	}

	bus.runOnDrop(event, payload)
}
