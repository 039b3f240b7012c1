package protocol

import (
	"encoding/json"

	"github.com/luciancaetano/censusstream"
)

// Decode decodes an inbound frame into its envelope variant.
//
// Only frames that are not valid JSON are rejected. Fields whose JSON type
// does not match the catalog are left empty rather than failing the frame,
// so the envelope is always classified by its `type` alone.
// The returned envelope references data - do not modify it.
func Decode(data []byte) (censusstream.Envelope, error) {
	if !json.Valid(data) {
		return nil, censusstream.ErrInvalidFrame
	}

	// Non-object JSON leaves the header empty and falls through to unknown.
	var header censusstream.Header
	_ = json.Unmarshal(data, &header)
	header.Frame = data

	switch header.MessageType {
	case censusstream.MessageTypeHeartbeat:
		env := &censusstream.Heartbeat{Header: header}
		_ = json.Unmarshal(data, env)
		return env, nil

	case censusstream.MessageTypeServiceMessage:
		env := &censusstream.ServiceMessage{Header: header}
		_ = json.Unmarshal(data, env)
		env.Payload = DecodePayload(env.RawPayload)
		return env, nil

	case censusstream.MessageTypeServiceStateChange:
		env := &censusstream.ServiceStateChange{Header: header}
		_ = json.Unmarshal(data, env)
		return env, nil

	case censusstream.MessageTypeConnectionStateChange:
		env := &censusstream.ConnectionStateChange{Header: header}
		_ = json.Unmarshal(data, env)
		return env, nil

	default:
		return &censusstream.UnknownEnvelope{Header: header}, nil
	}
}

// DecodePayload decodes a service message payload by its event_name. It
// never returns nil: unknown or missing names yield an *UnknownPayload.
func DecodePayload(raw json.RawMessage) censusstream.Payload {
	var base censusstream.PayloadBase
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &base)
	}

	payload := censusstream.NewPayload(base.Name)
	if unknown, ok := payload.(*censusstream.UnknownPayload); ok {
		unknown.PayloadBase = base
		unknown.Fields = raw
		return unknown
	}

	_ = json.Unmarshal(raw, payload)
	return payload
}
