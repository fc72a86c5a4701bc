package handler

import (
	"guardaazul/backend/internal/models"
	"guardaazul/backend/internal/notify"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeVerdictSocket upgrades to a websocket that receives the complaint's
// verdict as soon as validation finishes.
func (h *Handler) ServeVerdictSocket(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.Complaints.Status(c.Request.Context(), id, h.lang(c))
	if err != nil {
		h.respondError(c, err, "error.complaint_not_found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Failed to upgrade websocket for complaint %d: %v", id, err)
		return
	}

	current := models.VerdictEvent{
		ComplaintID:     id,
		Status:          view.Status,
		IsValid:         view.IsValid,
		ValidationScore: view.ValidationScore,
		At:              time.Now().UTC(),
	}

	if view.Status.IsTerminal() {
		notify.WriteEvent(conn, current)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(view.Status)))
		conn.Close()
		return
	}

	client := notify.NewClient(h.Hub, conn, id)
	if !h.Hub.Register(client) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	client.Run()

	// The verdict may have landed between the status read and the registration.
	view, err = h.Complaints.Status(c.Request.Context(), id, h.lang(c))
	if err == nil && view.Status.IsTerminal() {
		h.Hub.Push(models.VerdictEvent{
			ComplaintID:     id,
			Status:          view.Status,
			IsValid:         view.IsValid,
			ValidationScore: view.ValidationScore,
			At:              time.Now().UTC(),
		})
	}
}
