// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

/*
Package websocket provides real-time progress events for the graveyard
backup engine's UI collaborator (§6 "Events to UI").

It uses the gorilla/websocket library with a hub-client architecture for
efficient message broadcasting.

Key Components:

  - Hub: Central message broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - Event: The §6 progress-event shape forwarded to every subscriber

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: Reads from WebSocket, handles pings
  - writePump: Writes to WebSocket, sends pongs

Event Shape:

Every broadcast event has sender "logger" (a forwarded log record with
Level/Message set) or "worker" (a lifecycle transition with Src/Event and
optionally Target/Message set) — see Event in hub.go and §6.

Usage Example - Server:

	import (
	    "github.com/tomtom215/graveyard/internal/websocket"
	    "net/http"
	)

	// Create hub, run it as a suture.Service under the API layer
	hub := websocket.NewHub()
	tree.AddAPIService(hub)

	// WebSocket upgrade endpoint
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
	    websocket.ServeWS(hub, w, r)
	})

	// Forward a Scheduler lifecycle event
	hub.BroadcastEvent(websocket.Event{Sender: "worker", Src: "primary", Event: "ready"})

Usage Example - Client (JavaScript):

	// Connect to WebSocket
	const ws = new WebSocket('ws://localhost:8398/ws');

	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);
	    if (msg.type === 'event' && msg.data.sender === 'worker') {
	        console.log(`${msg.data.src}: ${msg.data.event}`);
	    }
	};

Connection Lifecycle:

1. Client connects via HTTP upgrade
2. Hub registers client
3. Client starts read/write goroutines
4. Hub broadcasts messages to all clients
5. Client disconnects (network error or explicit close)
6. Hub unregisters client and cleans up

Thread Safety:

The package is fully thread-safe:
  - Hub uses mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Configuration:

WebSocket settings:
  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 30 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 512 KB (max message size)

See Also:

  - github.com/gorilla/websocket: Underlying WebSocket library
  - internal/scheduler: the event source this package broadcasts for
*/
package websocket
