package model

// Habitat 栖息地，和恐龙是多对多关系（连接表dinosaur_habitats由gorm维护）
type Habitat struct {
	BaseModel
	Name        string `gorm:"not null;unique"`
	Environment string // 森林、沼泽、平原……
	Description string `gorm:"type:text"`
	Image       string
}

func (Habitat) TableName() string {
	return "habitats"
}
