package censusstream

import "context"

// Stream defines a client for the census push event stream.
//
// A Stream owns exactly one WebSocket connection for its whole lifetime.
// Control frames are JSON text messages written through an internal queue;
// inbound frames are decoded into an Envelope and re-emitted to listeners
// registered by event name.
//
// Example usage:
//
//	import "github.com/luciancaetano/censusstream/ws"
//
//	cfg := ws.NewConfig(censusstream.NamespacePC, "example")
//	cfg.On(censusstream.EventOpen, func(censusstream.Event) {
//	    log.Println("connected")
//	})
//
//	stream := ws.New(cfg)
//	stream.On(string(censusstream.EventNameDeath), func(ev censusstream.Event) {
//	    death := ev.Envelope.(*censusstream.ServiceMessage).Payload.(*censusstream.DeathPayload)
//	    log.Printf("%s died", death.CharacterID)
//	})
//	stream.Subscribe(ctx, []int{1, 17}, []string{"Death"})
type Stream interface {
	// ID returns the unique identifier of this client instance.
	ID() string

	// URL returns the connection target the client dialed.
	URL() string

	// Subscribe asks the server to start pushing the given event names for
	// the given worlds.
	//
	// Characters default to CharactersAll and the logical-and flag defaults
	// to false; both can be changed with SubscribeOption values.
	//
	// The frame is queued for delivery and the call returns immediately.
	// A delivery failure is logged and never reported to the caller.
	//
	// Example:
	//
	//	stream.Subscribe(ctx, []int{1, 17}, []string{"PlayerLogin"})
	//	stream.Subscribe(ctx, []int{1}, []string{"Death"},
	//	    censusstream.WithCharacters("5428010618015189713"),
	//	    censusstream.WithLogicalAndCharactersWithWorlds(true))
	Subscribe(ctx context.Context, worlds []int, eventNames []string, opts ...SubscribeOption)

	// Unsubscribe asks the server to stop pushing the given event names.
	// Only the WithCharacters option is honoured.
	Unsubscribe(ctx context.Context, worlds []int, eventNames []string, opts ...SubscribeOption)

	// UnsubscribeAll clears every subscription held by this connection.
	UnsubscribeAll(ctx context.Context)

	// On registers a listener for the named event and returns its ID.
	//
	// Names are either lifecycle events (EventOpen, EventData,
	// EventHeartbeat, EventClose) or a payload event name such as
	// string(EventNameDeath).
	//
	// Listeners run on the client's read goroutine, one frame at a time,
	// in arrival order. A slow listener delays every later event.
	On(name string, listener Listener) ListenerID

	// Once registers a listener that is removed after its first call.
	Once(name string, listener Listener) ListenerID

	// Off removes a listener previously returned by On or Once.
	Off(name string, id ListenerID)

	// Close closes the connection. The client cannot be reopened; create a
	// new one instead.
	Close(ctx context.Context) error

	// IsAlive returns true while the connection is open.
	IsAlive() bool

	// Done returns a channel that is closed once the connection has ended,
	// either through Close or because the server went away.
	Done() <-chan struct{}
}

// Event is what listeners receive.
type Event struct {
	// Name is the name the event was emitted under.
	Name string

	// Envelope is the decoded inbound frame. It is nil for EventOpen and
	// EventClose.
	Envelope Envelope

	// Err carries the reason the connection ended. Only set for EventClose,
	// and nil when the caller closed the client.
	Err error
}

// Listener handles an emitted event.
type Listener func(ev Event)

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID string
