package handlers

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/kurogitsune/gamesofni/internal/comm"
)

// FeedHub tracks websocket feed clients and pushes settlement messages to
// all of them.
type FeedHub struct {
	connMap sync.Map // socketId -> *websocket.Conn
}

func NewFeedHub() *FeedHub {
	return &FeedHub{}
}

func (h *FeedHub) Add(conn *websocket.Conn) string {
	socketId := uuid.NewString()
	h.connMap.Store(socketId, conn)
	return socketId
}

func (h *FeedHub) Remove(socketId string) {
	if conn, ok := h.connMap.Load(socketId); ok {
		conn.(*websocket.Conn).Close()
		h.connMap.Delete(socketId)
	}
}

// Broadcast pushes one message to every connected client. A client whose
// write fails is dropped.
func (h *FeedHub) Broadcast(msg comm.FeedMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("unable to marshal feed message: %s", err)
		return
	}

	h.connMap.Range(func(key, value interface{}) bool {
		conn := value.(*websocket.Conn)
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warnf("dropping feed client %s: %s", key.(string), err)
			h.Remove(key.(string))
		}
		return true
	})
}
