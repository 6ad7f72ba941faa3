package connectionhub

import (
	"context"
	"party-find-backend/db"
	pushdatastore "party-find-backend/lib/push/data-store"
	wsmodels "party-find-backend/models/ws"
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string, conn *websocket.Conn)
	// SendMessage reports whether a live session accepted the message. An accepted
	// message that cannot be written is stored for the next connect.
	SendMessage(msg wsmodels.ServerMessage) bool
	SendClose(userID string)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = NewInstance(pushdatastore.NewInstance(db.DB))
}

func NewInstance(store pushdatastore.Provider) Provider {
	return &impl{
		clients: map[string]*clientSession{},
		store:   store,
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]*clientSession //map[userID]
	store   pushdatastore.Provider
}

func (i *impl) DeleteClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID]
	if !ok || sess.conn != conn {
		return
	}
	delete(i.clients, userID)
	sess.stop()
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	if ok {
		oldSess.stop()
	}
	i.clients[userID] = newSession(conn, connWriter(conn), i.store)
	i.mu.Unlock()
	go i.sendDelayedMessages(userID)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[msg.ToUserID]
	if !ok {
		return false
	}
	return sess.enqueue(outbound{msg: msg})
}

func (i *impl) SendClose(userID string) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[userID]
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[userID]
	if !ok || sess.conn == nil || sess.conn.Conn == nil {
		return false
	}
	return true
}

// sendDelayedMessages queues stored notifications. Rows are deleted by the session once written.
func (i *impl) sendDelayedMessages(userID string) {
	logger := log.WithField("user_id", userID)
	list, err := i.store.List(context.Background(), userID)
	if err != nil {
		logger.WithError(err).Error("error getting undelivered notifications")
		return
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[userID]
	if !ok {
		return
	}
	for _, item := range list {
		msg := wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     item.CreatedAt.UTC().Format(wsmodels.TimeLayout),
			Code:     string(item.Code),
			Title:    item.Title,
			Msg:      item.Msg,
		}
		if !sess.enqueue(outbound{msg: msg, storedID: item.ID}) {
			logger.Debug("session refused stored notifications")
			return
		}
	}
}
