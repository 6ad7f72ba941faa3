package partyfindstore

import (
	"context"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUniqueViolation is returned when a partial unique index rejects a write.
var ErrUniqueViolation = errors.New("unique constraint violation")

type Provider interface {
	// Transaction runs fn on a store bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Provider) error) error
	// LockPost reads the post row with SELECT ... FOR UPDATE. Only meaningful inside Transaction.
	LockPost(ctx context.Context, id string) (*dbmodels.PartyFindPost, error)
	CreatePost(ctx context.Context, rec dbmodels.PartyFindPost) (id string, err error)
	UpdatePost(ctx context.Context, id string, updMap map[string]interface{}) error
	DeletePost(ctx context.Context, id string) error
	ListSlots(ctx context.Context, postID string) ([]dbmodels.PartyFindSlot, error)
	CreateSlots(ctx context.Context, postID string, slots []dbmodels.PartyFindSlot) ([]dbmodels.PartyFindSlot, error)
	DeleteSlots(ctx context.Context, postID string) error
	GetApply(ctx context.Context, id string) (*dbmodels.PartyFindApplyState, error)
	ListApplies(ctx context.Context, postID string, statuses ...models.ApplyStatus) ([]dbmodels.PartyFindApplyState, error)
	CreateApply(ctx context.Context, rec dbmodels.PartyFindApplyState) (id string, err error)
	UpdateApply(ctx context.Context, id string, updMap map[string]interface{}) error
	// LockCharacter reads the character with SELECT ... FOR SHARE so its job and owner
	// cannot change or vanish before the transaction ends. Lock order is post, then character.
	LockCharacter(ctx context.Context, id string) (*dbmodels.Character, error)
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

func (i impl) LockPost(ctx context.Context, id string) (*dbmodels.PartyFindPost, error) {
	rec := dbmodels.PartyFindPost{}
	err := i.db.
		WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
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

func (i impl) CreatePost(ctx context.Context, rec dbmodels.PartyFindPost) (id string, err error) {
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

func (i impl) UpdatePost(ctx context.Context, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		WithContext(ctx).
		Model(&dbmodels.PartyFindPost{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("post not found")
	}
	return nil
}

func (i impl) DeletePost(ctx context.Context, id string) error {
	rec := dbmodels.PartyFindPost{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		WithContext(ctx).
		Delete(&rec).
		Error
}

func (i impl) ListSlots(ctx context.Context, postID string) (list []dbmodels.PartyFindSlot, err error) {
	err = i.db.
		WithContext(ctx).
		Where("post_id = ?", postID).
		Order("slot_index").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CreateSlots(ctx context.Context, postID string, slots []dbmodels.PartyFindSlot) ([]dbmodels.PartyFindSlot, error) {
	if len(slots) == 0 {
		return slots, nil
	}
	for idx := range slots {
		slots[idx].PostID = postID
	}
	err := i.db.
		WithContext(ctx).
		Create(&slots).
		Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (i impl) DeleteSlots(ctx context.Context, postID string) error {
	return i.db.
		WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&dbmodels.PartyFindSlot{}).
		Error
}

func (i impl) GetApply(ctx context.Context, id string) (*dbmodels.PartyFindApplyState, error) {
	rec := dbmodels.PartyFindApplyState{}
	err := i.db.
		WithContext(ctx).
		Where("id = ?", id).
		Preload("Character").
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

func (i impl) ListApplies(ctx context.Context, postID string, statuses ...models.ApplyStatus) (list []dbmodels.PartyFindApplyState, err error) {
	tx := i.db.
		WithContext(ctx).
		Where("post_id = ?", postID)
	if len(statuses) != 0 {
		tx = tx.Where("status IN ?", statuses)
	}
	err = tx.
		Preload("Character").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CreateApply(ctx context.Context, rec dbmodels.PartyFindApplyState) (id string, err error) {
	err = i.db.
		WithContext(ctx).
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrUniqueViolation
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) UpdateApply(ctx context.Context, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		WithContext(ctx).
		Model(&dbmodels.PartyFindApplyState{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrUniqueViolation
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("application not found")
	}
	return nil
}

func (i impl) LockCharacter(ctx context.Context, id string) (*dbmodels.Character, error) {
	rec := dbmodels.Character{}
	err := i.db.
		WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
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

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "(SQLSTATE 23505)")
}
