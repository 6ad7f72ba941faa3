package dbmodels

import "party-find-backend/models"

type ContentType struct {
	BaseModel
	Code      models.ContentTypeCode `gorm:"type:varchar(50);uniqueIndex"`
	Name      string                 `gorm:"type:varchar(100)"`
	SortOrder int
	Tabs      []ContentTab `gorm:"foreignKey:ContentTypeID"`
}

type ContentTab struct {
	BaseModel
	ContentTypeID string `gorm:"type:varchar(36);index"`
	Name          string `gorm:"type:varchar(100)"`
	SortOrder     int
	Stages        []ContentStage `gorm:"foreignKey:ContentTabID"`
}

type ContentStage struct {
	BaseModel
	ContentTabID string      `gorm:"type:varchar(36);index"`
	ContentTab   *ContentTab `gorm:"foreignKey:ContentTabID"`
	Name         string      `gorm:"type:varchar(100)"`
	MinItemLevel float64
	PartySize    int
	SortOrder    int
}
