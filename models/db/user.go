package dbmodels

import "time"

type User struct {
	BaseModel
	Email     string `gorm:"type:varchar(255);uniqueIndex"`
	Password  string `gorm:"type:varchar(128)"`
	Nickname  string `gorm:"type:varchar(64)"`
	LastLogin time.Time
}
