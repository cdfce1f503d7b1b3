package model

// Era 地质纪元，比如三叠纪、侏罗纪，时间用“百万年前”表示
type Era struct {
	BaseModel
	Name        string `gorm:"not null;unique"`
	PeriodStart int    // 开始时间（百万年前）
	PeriodEnd   int    // 结束时间（百万年前）
	Description string `gorm:"type:text"`
	Image       string
}

func (Era) TableName() string {
	return "eras"
}
