package connectionhub

import (
	"context"
	pushdatastore "party-find-backend/lib/push/data-store"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	wsmodels "party-find-backend/models/ws"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const sendBufferSize = 16

type outbound struct {
	msg wsmodels.ServerMessage
	// storedID is the push_data row the message was read from, deleted once written.
	storedID string
}

type writeFunc func(msg wsmodels.ServerMessage) error

func connWriter(conn *websocket.Conn) writeFunc {
	return func(msg wsmodels.ServerMessage) error {
		if conn == nil || conn.Conn == nil {
			return errors.New("connection is closed")
		}
		return conn.WriteJSON(msg)
	}
}

// clientSession writes queued messages to one socket. Every accepted message is
// either written or left in push_data for the next connect.
type clientSession struct {
	conn  *websocket.Conn
	write writeFunc
	store pushdatastore.Provider

	mu     sync.Mutex
	closed bool
	// Outbound messages, buffered.
	sendCh chan outbound
	ctx    context.Context
	stop   func()
	done   chan struct{}
}

func newSession(conn *websocket.Conn, write writeFunc, store pushdatastore.Provider) *clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := &clientSession{
		conn:   conn,
		write:  write,
		store:  store,
		sendCh: make(chan outbound, sendBufferSize),
		ctx:    ctx,
		stop:   cancelFn,
		done:   make(chan struct{}),
	}
	go sess.startSend()
	return sess
}

// enqueue never blocks: a stopped session or a full buffer refuses the message.
func (s *clientSession) enqueue(item outbound) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.sendCh <- item:
		return true
	default:
		return false
	}
}

func (s *clientSession) startSend() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return
		case item := <-s.sendCh:
			err := s.write(item.msg)
			if err != nil {
				log.WithError(err).WithField("user_id", item.msg.ToUserID).Error("error sending message")
				s.keep(item)
				s.stop()
				s.shutdown()
				return
			}
			s.delivered(item)
		}
	}
}

// shutdown refuses new messages and moves the unsent ones back to storage.
func (s *clientSession) shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	for {
		select {
		case item := <-s.sendCh:
			s.keep(item)
		default:
			s.close()
			return
		}
	}
}

func (s *clientSession) delivered(item outbound) {
	log.WithField("user_id", item.msg.ToUserID).Debugf("message sent: %v", item.msg.Code)
	if item.storedID == "" {
		return
	}
	err := s.store.Delete(context.Background(), []string{item.storedID})
	if err != nil {
		log.WithError(err).WithField("user_id", item.msg.ToUserID).Error("error deleting delivered notification")
	}
}

func (s *clientSession) keep(item outbound) {
	if item.storedID != "" {
		return
	}
	err := s.store.Create(context.Background(), dbmodels.PushData{
		UserID: item.msg.ToUserID,
		Code:   models.PushCode(item.msg.Code),
		Msg:    item.msg.Msg,
		Title:  item.msg.Title,
	})
	if err != nil {
		log.WithError(err).WithField("user_id", item.msg.ToUserID).Error("error storing undelivered notification")
	}
}

func (s *clientSession) close() {
	if s.conn == nil || s.conn.Conn == nil {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	if err != nil {
		log.WithError(err).Debug("cant close")
	}
}
