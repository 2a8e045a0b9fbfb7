package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gorilla/websocket"

	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/service"
)

func TestHubBroadcast(t *testing.T) {
	c := qt.New(t)
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	c.Assert(err, qt.IsNil)
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			c.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(service.Event{ID: "abc", Source: "test", Request: encoder.Request{Kind: encoder.PT2262}, Result: "ok"})

	c.Assert(conn.SetReadDeadline(time.Now().Add(5*time.Second)), qt.IsNil)
	var got map[string]any
	c.Assert(conn.ReadJSON(&got), qt.IsNil)
	c.Assert(got["id"], qt.Equals, "abc")
	c.Assert(got["request"].(map[string]any)["encoder"], qt.Equals, "PT2262")

	conn.Close()
	deadline = time.Now().Add(5 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			c.Fatal("client never removed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
