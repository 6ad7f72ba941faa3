package dbmodels

type Region struct {
	BaseModel
	Code    string   `gorm:"type:varchar(10);uniqueIndex"`
	Name    string   `gorm:"type:varchar(100)"`
	Servers []Server `gorm:"foreignKey:RegionID"`
}

type Server struct {
	BaseModel
	RegionID string  `gorm:"type:varchar(36);index"`
	Region   *Region `gorm:"foreignKey:RegionID"`
	Name     string  `gorm:"type:varchar(100)"`
}
