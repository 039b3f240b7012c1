// Package censusstream provides a typed client for the PlanetSide 2 census
// push event stream.
//
// The push service is a single WebSocket endpoint. A client authenticates by
// putting its service ID in the connection URL, sends JSON control frames to
// subscribe to event names per world (and optionally per character), and
// receives JSON frames that are decoded into Envelope values and re-emitted to
// listeners registered by name.
//
// # Quick Start
//
//	import (
//	    "github.com/luciancaetano/censusstream"
//	    "github.com/luciancaetano/censusstream/ws"
//	)
//
//	cfg := ws.NewConfig(censusstream.NamespacePC, os.Getenv("CENSUS_SERVICE_ID"))
//	cfg.On(censusstream.EventOpen, func(censusstream.Event) {
//	    log.Println("connected")
//	})
//
//	stream := ws.New(cfg)
//	defer stream.Close(ctx)
//
//	stream.On("PlayerLogin", func(ev censusstream.Event) {
//	    msg := ev.Envelope.(*censusstream.ServiceMessage)
//	    login := msg.Payload.(*censusstream.PlayerLoginPayload)
//	    log.Printf("%s logged in on world %s", login.CharacterID, login.WorldID)
//	})
//	stream.Subscribe(ctx, []int{1, 17}, []string{"PlayerLogin"})
//
// # Events
//
//   - "open": once, after the WebSocket handshake.
//   - "data": every frame that parses as JSON, with the decoded Envelope.
//   - "heartbeat": every heartbeat envelope, after "data".
//   - "<event_name>": every service message, under its payload event name,
//     after "data".
//   - "close": once, when the connection ends.
//
// Frames that are not valid JSON are logged at debug level and dropped.
//
// # Wire Format
//
// Outbound:
//
//	{"service":"event","action":"subscribe","worlds":[1,17],"eventNames":["PlayerLogin"],"characters":["all"],"logicalAndCharactersWithWorlds":false}
//	{"service":"event","action":"clearSubscribe","worlds":[],"characters":["all"],"eventNames":["PlayerLogin"]}
//	{"service":"event","action":"clearSubscribe","all":"true"}
//
// Inbound frames are discriminated by "type": heartbeat, serviceMessage,
// serviceStateChange and connectionStateChanged. Every payload field is a
// string, including numeric and boolean ones.
//
// # Important
//
//   - There is no reconnect. After "close" the client is finished; build a
//     new one.
//   - Control frames are fire-and-forget. Failures are logged, not returned.
//   - Listeners run on the read goroutine in arrival order. Do not block in
//     them.
package censusstream
