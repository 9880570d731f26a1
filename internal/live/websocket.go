package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"larder/internal/costing"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WatchRequest asks for one recipe's cost to be recomputed and streamed back
type WatchRequest struct {
	RecipeID string `json:"recipe_id"`
}

// CostUpdate is a recomputed breakdown pushed to the client
type CostUpdate struct {
	RecipeID  string            `json:"recipe_id"`
	Breakdown costing.Breakdown `json:"breakdown"`
	Formatted string            `json:"formatted"`
}

// WSConnection maintains the WebSocket connection with one editor
type WSConnection struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	server *WatchServer
}

// handleWebSocket upgrades the connection and starts the pumps
func (s *WatchServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := &WSConnection{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump pumps messages from the WebSocket connection to the handler
func (c *WSConnection) readPump() {
	defer func() {
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the server to the WebSocket connection
func (c *WSConnection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The channel was closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes one watch request
func (c *WSConnection) handleMessage(message []byte) {
	var req WatchRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.sendError("malformed watch request")
		return
	}
	if req.RecipeID == "" {
		c.sendError("recipe_id is required")
		return
	}

	go func() {
		update, err := c.server.recompute(req.RecipeID)
		if err != nil {
			c.sendError("unknown recipe: " + req.RecipeID)
			return
		}
		c.sendUpdate(update)
	}()
}

// sendUpdate sends a cost update to the client
func (c *WSConnection) sendUpdate(update *CostUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling cost update: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping update")
	}
}

// sendError sends an error message to the client
func (c *WSConnection) sendError(message string) {
	response := map[string]string{"error": message}
	data, _ := json.Marshal(response)

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping error message")
	}
}
