package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt, DeleteAt
	Username  string `gorm:"unique;not null"`
	Password  string `gorm:"not null"` // bcrypt哈希，绝不存明文
	Email     string `gorm:"index"`
	Role      string `gorm:"type:varchar(16);not null;default:'user'"` // user / admin
	Active    bool   `gorm:"not null;default:true"`                    // 封禁后置为false，登录和鉴权都会拦
}

// IsAdmin 判断是否为管理员，权限判断统一走这里，别到处写字符串比较
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
