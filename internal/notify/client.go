package notify

import (
	"encoding/json"
	"guardaazul/backend/internal/models"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket waiting for the verdict of a complaint.
type Client struct {
	ComplaintID uint
	Conn        *websocket.Conn
	Hub         *Hub
	Send        chan models.VerdictEvent
}

func NewClient(hub *Hub, conn *websocket.Conn, complaintID uint) *Client {
	return &Client{
		ComplaintID: complaintID,
		Conn:        conn,
		Hub:         hub,
		Send:        make(chan models.VerdictEvent, 4),
	}
}

// Run starts the pumps.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump only watches for the peer going away; clients have nothing to say.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WARNING: websocket for complaint %d closed: %v", c.ComplaintID, err)
			}
			return
		}
	}
}

// writePump sends events until a final status has been delivered.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := WriteEvent(c.Conn, ev); err != nil {
				return
			}
			if ev.Status.IsTerminal() {
				c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(ev.Status)))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WriteEvent writes one event as a JSON text frame.
func WriteEvent(conn *websocket.Conn, ev models.VerdictEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
