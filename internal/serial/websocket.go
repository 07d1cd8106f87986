package serial

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// clientMessage is what the browser console sends.
//
//	{"type":"input","data":"l\r"}       raw keystrokes, echoed back
//	{"type":"line","data":"look"}        a complete line
//	{"type":"button","button":"up","long":false}
type clientMessage struct {
	Type   string `json:"type"`
	Data   string `json:"data,omitempty"`
	Button string `json:"button,omitempty"`
	Long   bool   `json:"long,omitempty"`
}

type serverMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Handler serves the serial console over a websocket. Only one client may be
// attached at a time, as with the physical UART.
type Handler struct {
	port     *Port
	console  *Console
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	active bool
}

func NewHandler(port *Port, console *Console, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		port:    port,
		console: console,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active {
		return false
	}
	h.active = true
	return true
}

func (h *Handler) release() {
	h.mu.Lock()
	h.active = false
	h.mu.Unlock()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.acquire() {
		http.Error(w, "serial console already in use", http.StatusConflict)
		return
	}
	defer h.release()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn}
	h.console.Attach(client)
	defer h.console.Attach(nil)
	h.logger.Info("serial client attached", "remote", r.RemoteAddr)

	ed := NewEditor(echoWriter{client}, DefaultMaxLine)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.logger.Info("serial client detached", "remote", r.RemoteAddr, "error", err)
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Debug("discarding malformed serial message", "error", err)
			continue
		}
		if err := h.handle(ed, msg); err != nil {
			h.logger.Info("serial port closed, dropping client", "error", err)
			return
		}
	}
}

func (h *Handler) handle(ed *Editor, msg clientMessage) error {
	switch msg.Type {
	case "input":
		for _, line := range ed.Feed([]byte(msg.Data)) {
			if err := h.port.Submit(line); err != nil {
				return err
			}
		}
	case "line":
		return h.port.Submit(Normalize(msg.Data))
	case "button":
		b, err := ParseButton(msg.Button)
		if err != nil {
			h.logger.Debug("discarding serial message", "error", err)
			return nil
		}
		return h.port.Press(Press{Button: b, Long: msg.Long})
	default:
		h.logger.Debug("unknown serial message type", "type", msg.Type)
	}
	return nil
}

type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) Send(text string) error {
	data, err := json.Marshal(serverMessage{Type: "output", Data: text})
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type echoWriter struct{ c *wsClient }

func (e echoWriter) Write(p []byte) (int, error) {
	if err := e.c.Send(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
