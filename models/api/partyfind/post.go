package partyfindapimodels

import (
	"party-find-backend/models"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// StartDateTimeLayout is the client local date-time format of PostData.StartDateTime.
const StartDateTimeLayout = "2006-01-02T15:04"

type PostData struct {
	ContentTypeID  string `json:"content_type_id"` // optional, must match the stage
	ContentTabID   string `json:"content_tab_id"`  // optional, must match the stage
	ContentStageID string `json:"content_stage_id"`
	ServerID       string `json:"server_id"`
	Title          string `json:"title"`
	Practice       bool   `json:"practice"`
	Reclear        bool   `json:"reclear"`
	EnforceRole    bool   `json:"enforce_role"`    // slots require SUPPORT/DPS
	StartDateTime  string `json:"start_date_time"` // client local, 2006-01-02T15:04
	TimeZone       string `json:"time_zone"`       // IANA zone of StartDateTime
	Recurring      bool   `json:"recurring"`
	CharacterID    string `json:"character_id"` // author's character
}

func (p PostData) Validate() error {
	if p.ContentStageID == "" {
		return errors.New("content stage is required")
	}
	if p.ServerID == "" {
		return errors.New("server is required")
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > models.PostTitleMaxLen {
		return errors.Errorf("title must be at most %d characters", models.PostTitleMaxLen)
	}
	if p.Practice == p.Reclear {
		return errors.New("exactly one of practice and reclear must be set")
	}
	if p.CharacterID == "" {
		return errors.New("character is required")
	}
	if _, err := p.StartInstant(); err != nil {
		return err
	}
	return nil
}

// StartInstant converts the client local start date-time to a UTC instant.
func (p PostData) StartInstant() (time.Time, error) {
	loc, err := LoadTimeZone(p.TimeZone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(StartDateTimeLayout, p.StartDateTime, loc)
	if err != nil {
		return time.Time{}, errors.New("start date-time has invalid format")
	}
	return t.UTC(), nil
}

func (p PostData) GetTitle() string {
	return strings.TrimSpace(p.Title)
}

type ApplyRequest struct {
	CharacterID string `json:"character_id"`
}

func (r ApplyRequest) Validate() error {
	if r.CharacterID == "" {
		return errors.New("character is required")
	}
	return nil
}

type ApproveRequest struct {
	ApplyID string `json:"apply_id"`
	SlotID  string `json:"slot_id"`
}

func (r ApproveRequest) Validate() error {
	if r.ApplyID == "" {
		return errors.New("application is required")
	}
	if r.SlotID == "" {
		return errors.New("slot is required")
	}
	return nil
}

type DenyRequest struct {
	ApplyID string `json:"apply_id"`
}

func (r DenyRequest) Validate() error {
	if r.ApplyID == "" {
		return errors.New("application is required")
	}
	return nil
}

type KickRequest struct {
	SlotID string `json:"slot_id"`
}

func (r KickRequest) Validate() error {
	if r.SlotID == "" {
		return errors.New("slot is required")
	}
	return nil
}

type WithdrawRequest struct {
	CharacterID string `json:"character_id"`
}

func (r WithdrawRequest) Validate() error {
	if r.CharacterID == "" {
		return errors.New("character is required")
	}
	return nil
}
