package service

import (
	"errors"
	"testing"

	"Dino_Museum/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ---- 内存版的假用户repo，把注册登录和后台管理全跑一遍 ----

type fakeUserRepo struct {
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*model.User)}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(userID uint64) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindAll() ([]model.User, error) {
	result := make([]model.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, *user)
	}
	return result, nil
}

func (f *fakeUserRepo) Update(user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码散列失败: %v", err)
	}
	user := &model.User{
		Username: username,
		Password: string(hashed),
		Email:    username + "@example.com",
		Role:     model.RoleUser,
		Active:   true,
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}
	return user
}

// 封禁之后登录必须立刻被拒，解封之后又能登录
func TestSetUserActiveBansLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo, "rex_fan", "secret123")

	if _, err := svc.Login("rex_fan", "secret123"); err != nil {
		t.Fatalf("封禁前登录应该成功: %v", err)
	}

	if err := svc.SetUserActive(user.ID, false); err != nil {
		t.Fatalf("封禁失败: %v", err)
	}
	if _, err := svc.Login("rex_fan", "secret123"); err == nil {
		t.Fatal("封禁后登录应该被拒绝")
	} else if err.Error() != "账号已被封禁" {
		t.Fatalf("封禁后的登录错误不对: %v", err)
	}

	if err := svc.SetUserActive(user.ID, true); err != nil {
		t.Fatalf("解封失败: %v", err)
	}
	if _, err := svc.Login("rex_fan", "secret123"); err != nil {
		t.Fatalf("解封后登录应该恢复: %v", err)
	}
}

func TestSetUserActiveMissingUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	if err := svc.SetUserActive(404, false); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("期待ErrUserNotFound，拿到: %v", err)
	}
}

func TestSetUserRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo, "curator", "secret123")

	if err := svc.SetUserRole(user.ID, "superadmin"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("非法角色应该返回ErrInvalidRole，拿到: %v", err)
	}
	// 校验失败不应该碰库
	if stored, _ := repo.FindByID(user.ID); stored.Role != model.RoleUser {
		t.Fatalf("非法角色不应该落库，库里是: %s", stored.Role)
	}

	if err := svc.SetUserRole(user.ID, model.RoleAdmin); err != nil {
		t.Fatalf("升管理员失败: %v", err)
	}
	stored, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("回查用户失败: %v", err)
	}
	if !stored.IsAdmin() {
		t.Fatalf("角色应该已是admin，库里是: %s", stored.Role)
	}

	if err := svc.SetUserRole(999, model.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("期待ErrUserNotFound，拿到: %v", err)
	}
}

func TestListUsers(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	seedUser(t, repo, "alpha", "secret123")
	seedUser(t, repo, "beta", "secret123")

	users, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("查询用户列表失败: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("用户数不对，期待2，拿到%d", len(users))
	}
}
