package pushhandler

import (
	"context"
	"fmt"
	"party-find-backend/db"
	pushdatastore "party-find-backend/lib/push/data-store"
	initchecker "party-find-backend/lib/utils/init-checker"
	connectionhub "party-find-backend/lib/ws/hub/connection-hub"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	wsmodels "party-find-backend/models/ws"
	"time"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// SendNotification delivers the event over the user's socket or stores it for the next connect.
	SendNotification(ctx context.Context, userID string, code models.PushCode, args ...interface{})
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(connectionhub.Instance, pushdatastore.NewInstance(db.DB))
}

func NewInstance(hub connectionhub.Provider, store pushdatastore.Provider) Provider {
	instance := impl{
		hub:   hub,
		store: store,
	}
	initchecker.CheckInit(
		"hub", instance.hub,
		"store", instance.store,
	)
	return instance
}

type impl struct {
	hub   connectionhub.Provider
	store pushdatastore.Provider
}

func (i impl) getLogger(userID string, code models.PushCode) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("event_code", string(code))
}

func (i impl) SendNotification(ctx context.Context, userID string, code models.PushCode, args ...interface{}) {
	logger := i.getLogger(userID, code)
	tpl, ok := models.PushCodeMap[code]
	if !ok {
		logger.Error("unknown notification code")
		return
	}
	msg := fmt.Sprintf(tpl.Msg, args...)
	delivered := i.hub.SendMessage(wsmodels.ServerMessage{
		ToUserID: userID,
		Time:     time.Now().UTC().Format(wsmodels.TimeLayout),
		Code:     string(code),
		Title:    tpl.Title,
		Msg:      msg,
	})
	if delivered {
		return
	}
	err := i.store.Create(ctx, dbmodels.PushData{
		UserID: userID,
		Code:   code,
		Msg:    msg,
		Title:  tpl.Title,
	})
	if err != nil {
		logger.WithError(err).Error("error storing notification")
	}
}
