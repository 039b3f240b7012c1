package censusstream

import "encoding/json"

// Envelope is a decoded inbound frame.
//
// The set of implementations is closed: *Heartbeat, *ServiceMessage,
// *ServiceStateChange, *ConnectionStateChange and *UnknownEnvelope. Use a
// type switch to handle them:
//
//	switch env := ev.Envelope.(type) {
//	case *censusstream.Heartbeat:
//	case *censusstream.ServiceMessage:
//	default:
//	}
type Envelope interface {
	// Type returns the `type` discriminator as received.
	Type() MessageType
	// Service returns the `service` tag as received.
	Service() ServiceType
	// Raw returns the frame bytes the envelope was decoded from.
	Raw() json.RawMessage

	envelope()
}

// Header holds the fields every envelope carries.
type Header struct {
	MessageType MessageType     `json:"type"`
	ServiceType ServiceType     `json:"service"`
	Frame       json.RawMessage `json:"-"`
}

func (h *Header) Type() MessageType    { return h.MessageType }
func (h *Header) Service() ServiceType { return h.ServiceType }
func (h *Header) Raw() json.RawMessage { return h.Frame }
func (h *Header) envelope()            {}

// Heartbeat is sent periodically by the event service and reports which
// upstream game servers are online.
type Heartbeat struct {
	Header
	// Online maps an upstream service name to "true" or "false".
	Online map[string]string `json:"online"`
}

// IsOnline reports whether the named upstream service was reported online.
func (h *Heartbeat) IsOnline(name string) bool {
	return h.Online[name] == "true"
}

// ServiceMessage carries one game event.
type ServiceMessage struct {
	Header
	// Payload is the decoded payload, never nil.
	Payload Payload `json:"-"`
	// RawPayload is the payload object as received.
	RawPayload json.RawMessage `json:"payload"`
}

// EventName returns the payload's event name.
func (m *ServiceMessage) EventName() EventName {
	return m.Payload.EventName()
}

// ServiceStateChange reports the event service going online or offline.
type ServiceStateChange struct {
	Header
	// State is "online" or "offline".
	State string `json:"state"`
}

// ConnectionStateChange is sent by the push transport when the connection
// state changes.
type ConnectionStateChange struct {
	Header
	// Connected is "true" or "false".
	Connected string `json:"connected"`
}

// UnknownEnvelope holds any frame whose `type` is not recognized, including
// valid JSON that is not an object.
type UnknownEnvelope struct {
	Header
}
