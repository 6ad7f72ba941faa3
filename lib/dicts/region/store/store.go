package regionstore

import (
	"context"
	dbmodels "party-find-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	List(ctx context.Context) ([]dbmodels.Region, error)
	GetServer(ctx context.Context, id string) (*dbmodels.Server, error)
	Save(ctx context.Context, rec *dbmodels.Region) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) List(ctx context.Context) ([]dbmodels.Region, error) {
	var result []dbmodels.Region
	err := i.db.
		WithContext(ctx).
		Preload("Servers", func(db *gorm.DB) *gorm.DB {
			return db.Order("servers.name")
		}).
		Order("code").
		Find(&result).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "error getting region list")
	}
	return result, nil
}

func (i impl) GetServer(ctx context.Context, id string) (*dbmodels.Server, error) {
	rec := dbmodels.Server{}
	err := i.db.
		WithContext(ctx).
		Where("id = ?", id).
		Preload("Region").
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

// Save inserts the region with its servers unless the code already exists.
func (i impl) Save(ctx context.Context, rec *dbmodels.Region) error {
	var rowCount int64
	err := i.db.
		WithContext(ctx).
		Model(dbmodels.Region{}).
		Where("code = ?", rec.Code).
		Count(&rowCount).
		Error
	if err != nil {
		return err
	}
	if rowCount > 0 {
		return nil
	}
	err = i.db.
		WithContext(ctx).
		Create(rec).
		Error
	if err != nil {
		return errors.Wrapf(err, "error saving region %v", rec.Code)
	}
	return nil
}
