package partyfindapimodels

import (
	"party-find-backend/models"
	"time"
)

type ContentRef struct {
	TypeID       string                 `json:"type_id"`
	TypeCode     models.ContentTypeCode `json:"type_code"`
	TypeName     string                 `json:"type_name"`
	TabID        string                 `json:"tab_id"`
	TabName      string                 `json:"tab_name"`
	StageID      string                 `json:"stage_id"`
	StageName    string                 `json:"stage_name"`
	PartySize    int                    `json:"party_size"`
	MinItemLevel float64                `json:"min_item_level"`
}

type PostView struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	AuthorID       string            `json:"author_id"`
	AuthorNickname string            `json:"author_nickname"`
	Content        ContentRef        `json:"content"`
	ServerID       string            `json:"server_id"`
	ServerName     string            `json:"server_name"`
	RegionID       string            `json:"region_id"`
	RegionName     string            `json:"region_name"`
	StartTime      time.Time         `json:"start_time"` // UTC
	Recurring      bool              `json:"recurring"`
	Practice       bool              `json:"practice"`
	Reclear        bool              `json:"reclear"`
	EnforceRole    bool              `json:"enforce_role"`
	Status         models.PostStatus `json:"status"` // derived at read time
	UpdatedAt      time.Time         `json:"updated_at"`
	Slots          []SlotView        `json:"slots"`
	FilledCount    int               `json:"filled_count"`
	AvgItemLevel   *float64          `json:"avg_item_level"` // null when no slot is filled
	IsAuthor       bool              `json:"is_author"`
	Waitlist       []ApplicantView   `json:"waitlist,omitempty"` // author only
}

type SlotView struct {
	ID           string         `json:"id"`
	Index        int            `json:"index"`
	JobType      models.JobType `json:"job_type"`
	IsAuthorSlot bool           `json:"is_author_slot"`
	IsMine       bool           `json:"is_mine"`   // occupied by the viewer's character
	Character    *SlotCharacter `json:"character"` // null when open
}

type SlotCharacter struct {
	ApplyID    string     `json:"apply_id"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	RosterName string     `json:"roster_name"`
	Job        models.Job `json:"job"`
	ItemLevel  float64    `json:"item_level"`
	Engravings []string   `json:"engravings"`
	UserID     string     `json:"user_id"`
}

type ApplicantView struct {
	ApplyID     string             `json:"apply_id"`
	CharacterID string             `json:"character_id"`
	Name        string             `json:"name"`
	RosterName  string             `json:"roster_name"`
	Job         models.Job         `json:"job"`
	JobType     models.JobType     `json:"job_type"`
	ItemLevel   float64            `json:"item_level"`
	Engravings  []string           `json:"engravings"`
	UserID      string             `json:"user_id"`
	Status      models.ApplyStatus `json:"status"`
	AppliedAt   time.Time          `json:"applied_at"`
}
