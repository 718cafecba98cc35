/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	sendQueue      = 16
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

type Client struct {
	id   string
	conn *websocket.Conn
	send chan any
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan any, sendQueue),
	}
}

// Channel is the set of connected clients. It is owned by the Machine's run
// loop and is not safe for concurrent use.
type Channel struct {
	clients map[*Client]bool
}

func newChannel() *Channel {
	return &Channel{clients: make(map[*Client]bool)}
}

func (ch *Channel) add(c *Client) {
	ch.clients[c] = true
}

func (ch *Channel) remove(c *Client) {
	if _, ok := ch.clients[c]; ok {
		delete(ch.clients, c)
		close(c.send)
	}
}

func (ch *Channel) len() int {
	return len(ch.clients)
}

// publish queues msg for every client. A client that cannot keep up is
// dropped rather than stalling the game.
func (ch *Channel) publish(msg any) {
	for c := range ch.clients {
		ch.unicast(c, msg)
	}
}

func (ch *Channel) unicast(c *Client, msg any) {
	if c == nil || !ch.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		ch.remove(c)
	}
}

func (ch *Channel) closeAll() {
	for c := range ch.clients {
		ch.remove(c)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, m *Machine) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "CONNS: Upgrade failed for %s: %v", realIP(r), err)
			return
		}

		client := newClient(conn)

		if !m.connect(client) {
			_ = conn.Close()
			return
		}

		logf(cfg, "CONNS: Client %s connected from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(cfg, m)
	}
}

func (c *Client) readPump(cfg *Config, m *Machine) {
	defer func() {
		m.disconnect(c)
		_ = c.conn.Close()
		logf(cfg, "CONNS: Client %s disconnected", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		ev, ok := parseEvent(data)
		if !ok {
			continue
		}

		if !m.submit(c, ev) {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
