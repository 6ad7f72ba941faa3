package authapimodels

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	minPasswordLen = 8
	maxNicknameLen = 64
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("email has invalid format")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"` // name shown to other players
}

func (r RegisterRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("email has invalid format")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.Errorf("password must be at least %d characters", minPasswordLen)
	}
	nickname := strings.TrimSpace(r.Nickname)
	if nickname == "" {
		return errors.New("nickname is required")
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLen {
		return errors.Errorf("nickname must be at most %d characters", maxNicknameLen)
	}
	return nil
}

type UserView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}
