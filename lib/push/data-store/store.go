package pushdatastore

import (
	"context"
	dbmodels "party-find-backend/models/db"
	"time"

	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.PushData) error
	List(ctx context.Context, userID string) ([]dbmodels.PushData, error)
	Delete(ctx context.Context, ids []string) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(ctx context.Context, rec dbmodels.PushData) error {
	return i.db.
		WithContext(ctx).
		Create(&rec).
		Error
}

func (i impl) List(ctx context.Context, userID string) (list []dbmodels.PushData, err error) {
	err = i.db.
		WithContext(ctx).
		Model(dbmodels.PushData{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.
		WithContext(ctx).
		Delete(&dbmodels.PushData{}, ids).
		Error
}

func (i impl) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tx := i.db.
		WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&dbmodels.PushData{})
	return tx.RowsAffected, tx.Error
}
