package connectionhub

import (
	"context"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	wsmodels "party-find-backend/models/ws"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	stored  []dbmodels.PushData
	deleted []string
}

func (f *fakeStore) Create(ctx context.Context, rec dbmodels.PushData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, rec)
	return nil
}

func (f *fakeStore) List(ctx context.Context, userID string) ([]dbmodels.PushData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []dbmodels.PushData{}
	for _, rec := range f.stored {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeStore) Delete(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeStore) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) storedMsgs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []string{}
	for _, rec := range f.stored {
		result = append(result, rec.Msg)
	}
	return result
}

func (f *fakeStore) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.deleted...)
}

// fakeWriter records written messages. With release set, writes wait until it is closed.
type fakeWriter struct {
	mu      sync.Mutex
	written []string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeWriter) write(msg wsmodels.ServerMessage) error {
	if f.release != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msg.Msg)
	return nil
}

func (f *fakeWriter) writtenMsgs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.written...)
}

func newTestHub(store *fakeStore, writer *fakeWriter) (*impl, *clientSession) {
	hub := NewInstance(store).(*impl)
	sess := newSession(nil, writer.write, store)
	hub.clients["user-1"] = sess
	return hub, sess
}

func message(text string) wsmodels.ServerMessage {
	return wsmodels.ServerMessage{ToUserID: "user-1", Code: string(models.PushPartyApply), Msg: text}
}

func TestSession(t *testing.T) {
	t.Run(`stopped session keeps unsent messages check`, func(t *testing.T) {
		store := &fakeStore{}
		writer := &fakeWriter{started: make(chan struct{}, 1), release: make(chan struct{})}
		hub, sess := newTestHub(store, writer)

		require.True(t, hub.SendMessage(message("first")))
		<-writer.started
		require.True(t, hub.SendMessage(message("second")))
		require.True(t, hub.SendMessage(message("third")))
		hub.SendClose("user-1")
		close(writer.release)
		<-sess.done

		written := writer.writtenMsgs()
		stored := store.storedMsgs()
		require.ElementsMatch(t, []string{"first", "second", "third"}, append(written, stored...))
		require.Contains(t, written, "first")
		require.False(t, hub.SendMessage(message("fourth")))
	})

	t.Run(`write failure check`, func(t *testing.T) {
		store := &fakeStore{}
		writer := &fakeWriter{err: errors.New("broken pipe")}
		hub, sess := newTestHub(store, writer)

		require.True(t, hub.SendMessage(message("first")))
		<-sess.done

		require.Empty(t, writer.writtenMsgs())
		require.Equal(t, []string{"first"}, store.storedMsgs())
		require.False(t, hub.SendMessage(message("second")))
	})

	t.Run(`stored message deleted after write check`, func(t *testing.T) {
		store := &fakeStore{stored: []dbmodels.PushData{
			{BaseModel: dbmodels.BaseModel{ID: "push-1"}, UserID: "user-1", Code: models.PushPartyApply, Msg: "stored"},
		}}
		writer := &fakeWriter{}
		hub, sess := newTestHub(store, writer)

		hub.sendDelayedMessages("user-1")
		require.Eventually(t, func() bool {
			return len(store.deletedIDs()) == 1
		}, time.Second, 10*time.Millisecond)
		sess.stop()
		<-sess.done

		require.Equal(t, []string{"stored"}, writer.writtenMsgs())
		require.Equal(t, []string{"push-1"}, store.deletedIDs())
		require.Len(t, store.storedMsgs(), 1)
	})

	t.Run(`stored message kept on write failure check`, func(t *testing.T) {
		store := &fakeStore{stored: []dbmodels.PushData{
			{BaseModel: dbmodels.BaseModel{ID: "push-1"}, UserID: "user-1", Code: models.PushPartyApply, Msg: "stored"},
		}}
		writer := &fakeWriter{err: errors.New("broken pipe")}
		hub, sess := newTestHub(store, writer)

		hub.sendDelayedMessages("user-1")
		<-sess.done

		require.Empty(t, store.deletedIDs())
		require.Len(t, store.storedMsgs(), 1)
	})
}
