package authhandler

import (
	"context"
	"party-find-backend/db"
	userstore "party-find-backend/lib/auth/user-store"
	authutils "party-find-backend/lib/utils/auth-utils"
	initchecker "party-find-backend/lib/utils/init-checker"
	"party-find-backend/models"
	authapimodels "party-find-backend/models/api/auth"
	dbmodels "party-find-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Register(ctx context.Context, request authapimodels.RegisterRequest) (resp *authapimodels.JWTResponse, hMsg models.ErrorCode, err error)
	Login(ctx context.Context, email, password string) (*authapimodels.JWTResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authapimodels.JWTResponse, error)
	Me(ctx context.Context, userID string) (*authapimodels.UserView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(userstore.NewInstance(db.DB))
}

func NewInstance(store userstore.Provider) Provider {
	instance := impl{
		store: store,
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	return instance
}

type impl struct {
	store userstore.Provider
}

var errBadCredentials = errors.New("invalid email or password")

func (i impl) getLogger(email string) *log.Entry {
	return log.WithField("email", email)
}

func (i impl) Register(ctx context.Context, request authapimodels.RegisterRequest) (*authapimodels.JWTResponse, models.ErrorCode, error) {
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		return nil, "", err
	}
	rec := dbmodels.User{
		Email:     request.Email,
		Password:  hash,
		Nickname:  strings.TrimSpace(request.Nickname),
		LastLogin: time.Now(),
	}
	id, err := i.store.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, userstore.ErrEmailExists) {
			return nil, models.ErrConflict, nil
		}
		return nil, "", errors.Wrap(err, "error creating user")
	}
	i.getLogger(request.Email).WithField("user_id", id).Info("user registered")
	resp, err := i.tokens(id, rec.Nickname)
	if err != nil {
		return nil, "", err
	}
	return resp, "", nil
}

func (i impl) Login(ctx context.Context, email, password string) (*authapimodels.JWTResponse, error) {
	user, err := i.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !authutils.CheckPassword(user.Password, password) {
		i.getLogger(email).Info("login rejected")
		return nil, errBadCredentials
	}
	err = i.store.SetLastLogin(ctx, user.ID, time.Now())
	if err != nil {
		i.getLogger(email).WithError(err).Warn("error saving last login")
	}
	return i.tokens(user.ID, user.Nickname)
}

func (i impl) RefreshToken(ctx context.Context, refreshToken string) (*authapimodels.JWTResponse, error) {
	userID, err := authutils.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := i.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return i.tokens(user.ID, user.Nickname)
}

func (i impl) Me(ctx context.Context, userID string) (*authapimodels.UserView, error) {
	user, err := i.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return &authapimodels.UserView{
		ID:       user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	}, nil
}

func (i impl) tokens(userID, name string) (*authapimodels.JWTResponse, error) {
	token, err := authutils.GetToken(userID, name)
	if err != nil {
		return nil, errors.Wrap(err, "error creating token")
	}
	refreshToken, err := authutils.GetRefreshToken(userID, name)
	if err != nil {
		return nil, errors.Wrap(err, "error creating refresh token")
	}
	return &authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}
