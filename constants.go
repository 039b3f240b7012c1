package censusstream

import "errors"

// Lifecycle and generic event names emitted by a Stream.
const (
	EventOpen      = "open"
	EventData      = "data"
	EventHeartbeat = "heartbeat"
	EventClose     = "close"
)

// MessageType is the `type` discriminator of an inbound envelope.
type MessageType string

const (
	MessageTypeHeartbeat             MessageType = "heartbeat"
	MessageTypeServiceMessage        MessageType = "serviceMessage"
	MessageTypeServiceStateChange    MessageType = "serviceStateChange"
	MessageTypeConnectionStateChange MessageType = "connectionStateChanged"
)

// ServiceType is the `service` tag of a frame, naming the owning subsystem.
type ServiceType string

const (
	ServiceEvent ServiceType = "event"
	ServicePush  ServiceType = "push"
)

// Namespace selects the game deployment environment.
type Namespace string

const (
	NamespacePC    Namespace = "ps2:v2"
	NamespacePS4US Namespace = "ps2ps4us:v2"
	NamespacePS4EU Namespace = "ps2ps4eu:v2"
)

// Control frame actions.
const (
	ActionSubscribe      = "subscribe"
	ActionClearSubscribe = "clearSubscribe"
)

// CharactersAll is the character sentinel meaning every character.
const CharactersAll = "all"

// Endpoint of the push service.
const (
	StreamHost     = "push.planetside2.com/streaming"
	StreamEndpoint = "wss://" + StreamHost
)

// Standard errors
var (
	// Frame errors
	ErrInvalidFrame = errors.New("frame is not valid JSON")
	ErrEncodeFailed = errors.New("failed to encode control frame")

	// Connection errors
	ErrConnectionClosed = errors.New("stream connection is closed")
	ErrDialFailed       = errors.New("failed to open stream connection")
	ErrSendQueueFull    = errors.New("stream send queue is full")
)
