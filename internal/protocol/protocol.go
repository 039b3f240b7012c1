package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/luciancaetano/censusstream"
)

// SubscribeRequest is the subscribe control frame.
type SubscribeRequest struct {
	Service                        censusstream.ServiceType `json:"service"`
	Action                         string                   `json:"action"`
	Worlds                         []int                    `json:"worlds"`
	EventNames                     []string                 `json:"eventNames"`
	Characters                     []string                 `json:"characters"`
	LogicalAndCharactersWithWorlds bool                     `json:"logicalAndCharactersWithWorlds"`
}

// UnsubscribeRequest is the clearSubscribe control frame. The field order
// matches what the service documents.
type UnsubscribeRequest struct {
	Service    censusstream.ServiceType `json:"service"`
	Action     string                   `json:"action"`
	Worlds     []int                    `json:"worlds"`
	Characters []string                 `json:"characters"`
	EventNames []string                 `json:"eventNames"`
}

// UnsubscribeAllRequest clears every subscription.
type UnsubscribeAllRequest struct {
	Service censusstream.ServiceType `json:"service"`
	Action  string                   `json:"action"`
	All     string                   `json:"all"`
}

// EncodeSubscribe encodes a subscribe frame. Nil lists encode as [].
func EncodeSubscribe(worlds []int, eventNames []string, opts censusstream.SubscribeOptions) ([]byte, error) {
	return encode(SubscribeRequest{
		Service:                        censusstream.ServiceEvent,
		Action:                         censusstream.ActionSubscribe,
		Worlds:                         nonNilInts(worlds),
		EventNames:                     nonNilStrings(eventNames),
		Characters:                     characters(opts.Characters),
		LogicalAndCharactersWithWorlds: opts.LogicalAndCharactersWithWorlds,
	})
}

// EncodeUnsubscribe encodes a clearSubscribe frame for the given worlds and
// event names.
func EncodeUnsubscribe(worlds []int, eventNames []string, opts censusstream.SubscribeOptions) ([]byte, error) {
	return encode(UnsubscribeRequest{
		Service:    censusstream.ServiceEvent,
		Action:     censusstream.ActionClearSubscribe,
		Worlds:     nonNilInts(worlds),
		Characters: characters(opts.Characters),
		EventNames: nonNilStrings(eventNames),
	})
}

// EncodeUnsubscribeAll encodes the clear-everything frame.
func EncodeUnsubscribeAll() ([]byte, error) {
	return encode(UnsubscribeAllRequest{
		Service: censusstream.ServiceEvent,
		Action:  censusstream.ActionClearSubscribe,
		All:     "true",
	})
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", censusstream.ErrEncodeFailed, err)
	}
	return data, nil
}

func characters(ids []string) []string {
	if len(ids) == 0 {
		return []string{censusstream.CharactersAll}
	}
	return ids
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
