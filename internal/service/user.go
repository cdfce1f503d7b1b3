package service

import (
	"errors"
	"os"
	"time"

	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户服务接口：1、注册 2、登录 3、后台用户管理（列表、封禁/解封、改角色）
type UserService interface {
	Register(username, password, email string) (*model.User, error)
	Login(username, password string) (string, error)

	ListUsers() ([]model.User, error)
	// 封禁或解封。封禁即刻生效：中间件每个请求都会回表查Active
	SetUserActive(userID uint64, active bool) error
	SetUserRole(userID uint64, role string) error
}

// 用户服务包装
type userService struct {
	userRepo repository.UserRepository
}

// 包装函数
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// 注册逻辑：1、检查是否重名 2、密码加密存储 3、创建用户表项 4、插入数据库
// 新用户一律是普通角色，升管理员要走后台的改角色接口
func (s *userService) Register(username, password, email string) (*model.User, error) {
	_, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return nil, errors.New("用户名已存在")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Username: username,
		Password: string(hashedPassword),
		Email:    email,
		Role:     model.RoleUser,
		Active:   true,
	}

	err = s.userRepo.Create(newUser)
	if err != nil {
		return nil, err
	}
	return newUser, nil
}

// 登录逻辑：1、检查库中是否有该用户名 2、账号被封禁直接拒绝 3、加密后密码和输入密码比对 4、生成jwt签名
func (s *userService) Login(username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("用户名不存在")
		}
		return "", err
	}
	if !user.Active {
		return "", errors.New("账号已被封禁")
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return "", errors.New("用户名或密码错误")
	}
	// token对象的Payload，不能将密码放在其中，Payload不加密。
	// role放进claims只是给前端展示用，服务端每个请求都会回库里重新核对角色和封禁状态
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour * 72).Unix(), // 过期时间，这里设置为72小时
		"iat":      time.Now().Unix(),                     // 签发时间
	}
	// token加上Header，算法信息HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secretKey := []byte(os.Getenv("JWT_SECRET_KEY"))
	// 对token对象中的Header和Payload进行签名，用于防伪（Header.Payload.Signature）
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *userService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

// 封禁/解封：改的是users表的Active列，鉴权中间件每个请求都回表核对，
// 所以被封的用户手里的token立刻失效，不用等token过期
func (s *userService) SetUserActive(userID uint64, active bool) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.Active = active
	return s.userRepo.Update(user)
}

// 改角色：只认user和admin两种，别的字符串一律拦下
func (s *userService) SetUserRole(userID uint64, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return ErrInvalidRole
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.Role = role
	return s.userRepo.Update(user)
}
