package model

// Dinosaur 图鉴主角，恐龙都要有什么？名字、描述、体型数据、食性，再挂上纪元和地区
type Dinosaur struct {
	BaseModel
	Name        string `gorm:"not null;index"`
	Description string `gorm:"type:text"`
	Kind        string  // 兽脚类、蜥脚类之类的分类
	Diet        string `gorm:"index"` // carnivore / herbivore / omnivore，列表页按它过滤
	WeightKg    float64
	HeightM     float64
	LengthM     float64
	Image       string // 图片URL，文件本身不归这个服务管

	// 外键用指针，这样没填纪元/地区的恐龙是NULL而不是0
	EraID     *uint64 `gorm:"index"`
	RegionID  *uint64 `gorm:"index"`
	CreatorID uint64  `gorm:"not null"` // 录入者ID，用于关联用户

	Era     *Era    `gorm:"foreignKey:EraID"`
	Region  *Region `gorm:"foreignKey:RegionID"`
	Creator User    `gorm:"foreignKey:CreatorID;references:ID"`
	// N对M：一种恐龙可以生活在多种栖息地
	Habitats []Habitat `gorm:"many2many:dinosaur_habitats"`
}

func (Dinosaur) TableName() string {
	return "dinosaurs"
}
