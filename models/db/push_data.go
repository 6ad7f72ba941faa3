package dbmodels

import "party-find-backend/models"

type PushData struct {
	BaseModel
	UserID string          `gorm:"type:varchar(36);index:idx_user"`
	Code   models.PushCode `gorm:"type:varchar(255)"`
	Msg    string
	Title  string
}
