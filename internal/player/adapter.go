package player

// EventKind enumerates the state-change notifications a media adapter emits.
type EventKind string

// Adapter lifecycle events.
const (
	EventReady   EventKind = "ready"
	EventPlaying EventKind = "playing"
	EventPaused  EventKind = "paused"
	EventEnded   EventKind = "ended"
)

// Event is a single state-change notification from the media adapter.
// Duration is only populated for EventReady.
type Event struct {
	Kind     EventKind
	Duration float64
}

// MediaAdapter wraps the external video-rendering component. The engine
// treats it as an opaque capability; any player satisfying this contract is
// substitutable, including one living on the far side of a websocket.
type MediaAdapter interface {
	Play()
	Pause()
	Seek(seconds float64)
	CurrentTime() float64
	Duration() float64
}
