package dbmodels

import (
	"time"
)

// BaseModel is embedded by every table. Ids are generated by postgres (uuid-ossp).
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey;default:uuid_generate_v4()"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
