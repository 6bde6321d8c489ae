package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/clubhub-dev/clubhub/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	clubClients   = make(map[string]map[*websocket.Conn]bool)
	clubClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastClubRefresh tells every dashboard connected to a club to refetch.
func BroadcastClubRefresh(clubID string) {
	clubClientsMu.RLock()
	clients, exists := clubClients[clubID]
	if !exists || len(clients) == 0 {
		clubClientsMu.RUnlock()
		return
	}

	// Copy the connections so we don't hold the lock while writing
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	clubClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Club data updated",
			"club_id": clubID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			clubClientsMu.Lock()
			if clients, exists := clubClients[clubID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(clubClients, clubID)
				}
			}
			clubClientsMu.Unlock()
			conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	clubID := c.Param("club_id")

	if clubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Club ID is required"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	clubClientsMu.Lock()
	if clubClients[clubID] == nil {
		clubClients[clubID] = make(map[*websocket.Conn]bool)
	}
	clubClients[clubID][conn] = true
	clubClientsMu.Unlock()

	defer func() {
		clubClientsMu.Lock()

		if clients, exists := clubClients[clubID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(clubClients, clubID)
			}
		}

		clubClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for club %s", clubID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
		"club_id": clubID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for club %s: %v", clubID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for club %s: %v", clubID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for club %s: %v", clubID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for club %s: %v", clubID, err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			log.Printf("Received message from client in club %s: %s", clubID, string(message))
		}
	}
}
