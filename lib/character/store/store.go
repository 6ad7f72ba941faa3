package characterstore

import (
	"context"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Transaction(ctx context.Context, fn func(tx Provider) error) error
	Create(ctx context.Context, rec dbmodels.Character) (id string, err error)
	// LockByID reads the character with SELECT ... FOR UPDATE. Only meaningful inside Transaction.
	LockByID(ctx context.Context, id string) (*dbmodels.Character, error)
	ListByUser(ctx context.Context, userID string) ([]dbmodels.Character, error)
	Update(ctx context.Context, id string, updMap map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	// HasOpenPostSlot reports whether the character occupies a slot of a post that has not started yet.
	HasOpenPostSlot(ctx context.Context, characterID string, now time.Time) (bool, error)
	DeleteApplies(ctx context.Context, characterID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Transaction(ctx context.Context, fn func(tx Provider) error) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewInstance(tx))
	})
}

func (i impl) Create(ctx context.Context, rec dbmodels.Character) (id string, err error) {
	err = i.db.
		WithContext(ctx).
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) LockByID(ctx context.Context, id string) (*dbmodels.Character, error) {
	return i.get(i.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.Character, error) {
	rec := dbmodels.Character{}
	err := tx.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByUser(ctx context.Context, userID string) (list []dbmodels.Character, err error) {
	err = i.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("item_level DESC, name").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "error getting character list")
	}
	return list, nil
}

func (i impl) Update(ctx context.Context, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		WithContext(ctx).
		Model(&dbmodels.Character{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("character not found")
	}
	return nil
}

func (i impl) Delete(ctx context.Context, id string) error {
	return i.db.
		WithContext(ctx).
		Delete(&dbmodels.Character{}, "id = ?", id).
		Error
}

func (i impl) HasOpenPostSlot(ctx context.Context, characterID string, now time.Time) (bool, error) {
	var rowCount int64
	err := i.db.
		WithContext(ctx).
		Table("party_find_apply_states AS a").
		Joins("JOIN party_find_posts AS p ON p.id = a.post_id").
		Where("a.character_id = ?", characterID).
		Where("a.status = ?", models.ApplyStatusApproved).
		Where("a.slot_id IS NOT NULL").
		Where("p.start_time > ?", now.UTC()).
		Count(&rowCount).
		Error
	if err != nil {
		return false, errors.Wrap(err, "error checking character slots")
	}
	return rowCount > 0, nil
}

func (i impl) DeleteApplies(ctx context.Context, characterID string) error {
	return i.db.
		WithContext(ctx).
		Where("character_id = ?", characterID).
		Delete(&dbmodels.PartyFindApplyState{}).
		Error
}
