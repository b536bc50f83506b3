// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package delivery

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pdiddy/anilookup/internal/bot"
	"github.com/pdiddy/anilookup/internal/logging"
	"github.com/pdiddy/anilookup/internal/paginate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
)

// Frame types sent to the client.
const (
	FramePage    = "page"
	FrameError   = "error"
	FrameExpired = "expired"
)

// Frame is one outbound websocket message.
type Frame struct {
	Type  string         `json:"type"`
	Page  *paginate.Page `json:"page,omitempty"`
	Error string         `json:"error,omitempty"`
	At    time.Time      `json:"at"`
}

// Commander runs one chat line for a conversation. *bot.Dispatcher
// implements it.
type Commander interface {
	Handle(ctx context.Context, conversation, line string) (paginate.Page, error)
}

type incomingMessage struct {
	Text string `json:"text"`
}

// Server serves websocket conversations. Each connection is one
// conversation: inbound text frames are commands, outbound frames are pages.
type Server struct {
	cmd      Commander
	sessions *paginate.Store
	upgrader websocket.Upgrader
}

// NewServer returns a Server. sessions must be the store cmd registers its
// sessions in; it is used to report expiry and to release a conversation's
// session on disconnect.
func NewServer(cmd Commander, sessions *paginate.Store) *Server {
	return &Server{
		cmd:      cmd,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the conversation until the peer
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &conversation{
		id:     uuid.NewString(),
		server: s,
		ws:     ws,
		ctx:    ctx,
		send:   make(chan Frame, sendBuffer),
		lines:  make(chan string, sendBuffer),
		done:   make(chan struct{}),
	}
	logging.Info().Str("conversation", c.id).Str("remote", r.RemoteAddr).Msg("conversation opened")

	go c.writePump()
	go c.process()
	c.readPump()

	// process may still be inside Handle and about to register a session.
	cancel()
	<-c.done
	s.sessions.Remove(c.id)
	logging.Info().Str("conversation", c.id).Msg("conversation closed")
}

type conversation struct {
	id     string
	server *Server
	ws     *websocket.Conn
	ctx    context.Context
	send   chan Frame
	lines  chan string
	done   chan struct{}

	// lastWatched is only touched by process.
	lastWatched string
}

func (c *conversation) readPump() {
	defer close(c.lines)

	c.ws.SetReadLimit(maxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Str("conversation", c.id).Msg("unexpected websocket close")
			}
			return
		}

		text := strings.TrimSpace(string(payload))
		var incoming incomingMessage
		if err := json.Unmarshal(payload, &incoming); err == nil {
			text = strings.TrimSpace(incoming.Text)
		}
		if text == "" {
			continue
		}

		select {
		case c.lines <- text:
		case <-c.ctx.Done():
			return
		}
	}
}

// process runs commands one at a time, in arrival order.
func (c *conversation) process() {
	defer close(c.done)

	for line := range c.lines {
		if c.ctx.Err() != nil {
			continue
		}
		page, err := c.server.cmd.Handle(c.ctx, c.id, line)
		switch {
		case err == nil:
			c.watch(page.SessionID)
			c.push(Frame{Type: FramePage, Page: &page})
		case errors.Is(err, bot.ErrNotCommand):
		case errors.Is(err, bot.ErrUnknownCommand):
			c.push(Frame{Type: FrameError, Error: "unknown command, try " + bot.Prefix + bot.CmdReadme})
		case errors.Is(err, bot.ErrNoSession):
			c.push(Frame{Type: FrameError, Error: "no active results, run a command first"})
		default:
			logging.Warn().Err(err).Str("conversation", c.id).Msg("command failed")
			c.push(Frame{Type: FrameError, Error: "command failed"})
		}
	}
}

// watch reports the expiry of a newly created session to the client.
// Navigation within an already watched session registers nothing.
func (c *conversation) watch(sessionID string) {
	s, ok := c.server.sessions.Get(c.id)
	if !ok || s.ID() != sessionID || c.watched(sessionID) {
		return
	}
	s.OnRelease(func(r paginate.Reason) {
		if r == paginate.ReasonExpired {
			c.push(Frame{Type: FrameExpired})
		}
	})
}

func (c *conversation) watched(sessionID string) bool {
	if c.lastWatched == sessionID {
		return true
	}
	c.lastWatched = sessionID
	return false
}

func (c *conversation) push(f Frame) {
	f.At = time.Now().UTC()
	select {
	case c.send <- f:
	case <-c.ctx.Done():
	}
}

func (c *conversation) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case f := <-c.send:
			data, err := json.Marshal(f)
			if err != nil {
				logging.Error().Err(err).Msg("encoding frame")
				continue
			}
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Debug().Err(err).Str("conversation", c.id).Msg("write failed")
				return
			}
		case <-ticker.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
