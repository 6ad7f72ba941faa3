package userstore

import (
	"context"
	dbmodels "party-find-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEmailExists = errors.New("email already registered")

type Provider interface {
	Create(ctx context.Context, rec dbmodels.User) (id string, err error)
	GetByID(ctx context.Context, id string) (*dbmodels.User, error)
	FindByEmail(ctx context.Context, email string) (*dbmodels.User, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(ctx context.Context, rec dbmodels.User) (id string, err error) {
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	err = i.db.
		WithContext(ctx).
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		if strings.Contains(err.Error(), "(SQLSTATE 23505)") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(ctx context.Context, id string) (*dbmodels.User, error) {
	return i.first(ctx, "id = ?", id)
}

func (i impl) FindByEmail(ctx context.Context, email string) (*dbmodels.User, error) {
	return i.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (i impl) first(ctx context.Context, query string, arg interface{}) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		WithContext(ctx).
		Where(query, arg).
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

func (i impl) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return i.db.
		WithContext(ctx).
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Update("last_login", at).
		Error
}
