package dbmodels

import (
	"party-find-backend/models"

	"github.com/lib/pq"
)

type Character struct {
	BaseModel
	UserID     string         `gorm:"type:varchar(36);index:idx_character_user"`
	User       *User          `gorm:"foreignKey:UserID"`
	Name       string         `gorm:"type:varchar(64)"`
	RosterName string         `gorm:"type:varchar(64)"` // in-game account name
	Job        models.Job     `gorm:"type:varchar(50)"`
	ItemLevel  float64        `gorm:"type:numeric(7,2)"`
	Engravings pq.StringArray `gorm:"type:text[]"`
}
