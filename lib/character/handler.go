package characterhandler

import (
	"context"
	"party-find-backend/db"
	characterstore "party-find-backend/lib/character/store"
	initchecker "party-find-backend/lib/utils/init-checker"
	"party-find-backend/models"
	characterapimodels "party-find-backend/models/api/character"
	dbmodels "party-find-backend/models/db"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	List(ctx context.Context, userID string) ([]characterapimodels.CharacterView, error)
	Create(ctx context.Context, userID string, data characterapimodels.CharacterData) (id string, err error)
	Update(ctx context.Context, userID, id string, data characterapimodels.CharacterData) (hMsg models.ErrorCode, err error)
	Delete(ctx context.Context, userID, id string) (hMsg models.ErrorCode, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(characterstore.NewInstance(db.DB), time.Now)
}

func NewInstance(store characterstore.Provider, now func() time.Time) Provider {
	instance := impl{
		store: store,
		now:   now,
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	return instance
}

type impl struct {
	store characterstore.Provider
	now   func() time.Time
}

var errRejected = errors.New("rejected")

func (i impl) getLogger(userID, characterID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if characterID != "" {
		logger = logger.WithField("character_id", characterID)
	}
	return logger
}

func (i impl) List(ctx context.Context, userID string) ([]characterapimodels.CharacterView, error) {
	list, err := i.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]characterapimodels.CharacterView, 0, len(list))
	for _, rec := range list {
		result = append(result, characterapimodels.CharacterConvert(rec))
	}
	return result, nil
}

func (i impl) Create(ctx context.Context, userID string, data characterapimodels.CharacterData) (id string, err error) {
	rec := dbmodels.Character{
		UserID:     userID,
		Name:       data.Name,
		RosterName: data.RosterName,
		Job:        data.Job,
		ItemLevel:  data.ItemLevel,
		Engravings: pq.StringArray(data.GetEngravings()),
	}
	id, err = i.store.Create(ctx, rec)
	if err != nil {
		return "", errors.Wrap(err, "error creating character")
	}
	i.getLogger(userID, id).Info("character created")
	return id, nil
}

func (i impl) Update(ctx context.Context, userID, id string, data characterapimodels.CharacterData) (hMsg models.ErrorCode, err error) {
	err = i.store.Transaction(ctx, func(tx characterstore.Provider) error {
		rec, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil || rec.UserID != userID {
			hMsg = models.ErrNoCharacter
			return errRejected
		}
		// a slot already granted by role must keep matching the character
		if rec.Job.JobType() != data.Job.JobType() {
			hasSlot, err := tx.HasOpenPostSlot(ctx, id, i.now())
			if err != nil {
				return err
			}
			if hasSlot {
				hMsg = models.ErrCharacterHasOpenPost
				return errRejected
			}
		}
		return tx.Update(ctx, id, map[string]interface{}{
			"name":        data.Name,
			"roster_name": data.RosterName,
			"job":         data.Job,
			"item_level":  data.ItemLevel,
			"engravings":  pq.StringArray(data.GetEngravings()),
		})
	})
	if errors.Is(err, errRejected) {
		return hMsg, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error updating character")
	}
	return "", nil
}

func (i impl) Delete(ctx context.Context, userID, id string) (hMsg models.ErrorCode, err error) {
	err = i.store.Transaction(ctx, func(tx characterstore.Provider) error {
		rec, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil || rec.UserID != userID {
			hMsg = models.ErrNoCharacter
			return errRejected
		}
		hasSlot, err := tx.HasOpenPostSlot(ctx, id, i.now())
		if err != nil {
			return err
		}
		if hasSlot {
			hMsg = models.ErrCharacterHasOpenPost
			return errRejected
		}
		err = tx.DeleteApplies(ctx, id)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if errors.Is(err, errRejected) {
		return hMsg, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error deleting character")
	}
	i.getLogger(userID, id).Info("character deleted")
	return "", nil
}
