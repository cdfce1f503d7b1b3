package model

// Region 化石发现地区
type Region struct {
	BaseModel
	Name        string `gorm:"not null;unique"`
	Country     string
	Continent   string
	Description string `gorm:"type:text"`
	Image       string
}

func (Region) TableName() string {
	return "regions"
}
