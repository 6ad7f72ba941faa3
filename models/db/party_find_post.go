package dbmodels

import (
	"party-find-backend/models"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

func (p *PartyFindPost) AfterDelete(tx *gorm.DB) (err error) {
	if p.ID == "" {
		return nil
	}
	err = tx.Where("post_id = ?", p.ID).Delete(&PartyFindApplyState{}).Error
	if err != nil {
		return err
	}
	return tx.Where("post_id = ?", p.ID).Delete(&PartyFindSlot{}).Error
}

type PartyFindPost struct {
	BaseModel
	AuthorID       string        `gorm:"type:varchar(36);index:idx_post_author"`
	Author         *User         `gorm:"foreignKey:AuthorID"`
	ContentStageID string        `gorm:"type:varchar(36);index:idx_post_stage"`
	ContentStage   *ContentStage `gorm:"foreignKey:ContentStageID"`
	ServerID       string        `gorm:"type:varchar(36);index:idx_post_server"`
	Server         *Server       `gorm:"foreignKey:ServerID"`
	Title          string        `gorm:"type:varchar(35)"`
	StartTime      time.Time     `gorm:"index:idx_post_start"`
	Recurring      bool
	Practice       bool
	Reclear        bool
	EnforceRole    bool
	Status         models.PostStatus `gorm:"type:varchar(20);index:idx_post_status"`
	Slots          []PartyFindSlot   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

type PartyFindSlot struct {
	BaseModel
	PostID       string         `gorm:"type:varchar(36);uniqueIndex:idx_post_slot_index"`
	SlotIndex    int            `gorm:"uniqueIndex:idx_post_slot_index"`
	JobType      models.JobType `gorm:"type:varchar(10)"`
	IsAuthorSlot bool
}

type PartyFindApplyState struct {
	BaseModel
	PostID      string             `gorm:"type:varchar(36);index:idx_apply_post"`
	Post        *PartyFindPost     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	SlotID      *string            `gorm:"type:varchar(36)"`
	CharacterID string             `gorm:"type:varchar(36);index:idx_apply_character"`
	Character   *Character         `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE"`
	UserID      string             `gorm:"type:varchar(36);index:idx_apply_user"`
	Status      models.ApplyStatus `gorm:"type:varchar(20)"`
}

// PartyFindPostExt is a post row joined with its classification, server and author.
type PartyFindPostExt struct {
	PartyFindPost
	ContentStageName string
	PartySize        int
	MinItemLevel     float64
	ContentTabID     string
	ContentTabName   string
	ContentTypeID    string
	ContentTypeCode  models.ContentTypeCode
	ContentTypeName  string
	ServerName       string
	RegionID         string
	RegionName       string
	AuthorNickname   string
}

// PartyFindSlotRow is a slot joined with its approved occupant, if any.
type PartyFindSlotRow struct {
	SlotID         string
	PostID         string
	SlotIndex      int
	JobType        models.JobType
	IsAuthorSlot   bool
	ApplyID        *string
	CharacterID    *string
	CharacterName  *string
	RosterName     *string
	Job            *models.Job
	ItemLevel      *float64
	Engravings     pq.StringArray `gorm:"type:text[]"`
	CharacterOwner *string
}
