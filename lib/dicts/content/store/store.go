package contentstore

import (
	"context"
	dbmodels "party-find-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	List(ctx context.Context) ([]dbmodels.ContentType, error)
	GetStage(ctx context.Context, id string) (*dbmodels.ContentStage, error)
	Save(ctx context.Context, rec *dbmodels.ContentType) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) List(ctx context.Context) ([]dbmodels.ContentType, error) {
	var result []dbmodels.ContentType
	err := i.db.
		WithContext(ctx).
		Preload("Tabs", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_tabs.sort_order")
		}).
		Preload("Tabs.Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_stages.sort_order")
		}).
		Order("sort_order").
		Find(&result).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "error getting content type list")
	}
	return result, nil
}

// GetStage returns the stage with its tab. The tab carries the content type id.
func (i impl) GetStage(ctx context.Context, id string) (*dbmodels.ContentStage, error) {
	rec := dbmodels.ContentStage{}
	err := i.db.
		WithContext(ctx).
		Where("id = ?", id).
		Preload("ContentTab").
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

// Save upserts a content type with its tabs and stages by code.
func (i impl) Save(ctx context.Context, rec *dbmodels.ContentType) error {
	existing := dbmodels.ContentType{}
	err := i.db.
		WithContext(ctx).
		Where("code = ?", rec.Code).
		First(&existing).
		Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	err = i.db.
		WithContext(ctx).
		Create(rec).
		Error
	if err != nil {
		return errors.Wrapf(err, "error saving content type %v", rec.Code)
	}
	return nil
}
