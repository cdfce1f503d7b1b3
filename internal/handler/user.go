package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Dino_Museum/internal/service"
	"Dino_Museum/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetProfile(c *gin.Context)

	// 后台用户管理，只挂在管理员路由组下
	ListUsers(c *gin.Context)
	SetUserActive(c *gin.Context)
	SetUserRole(c *gin.Context)
}

// 对Service进行封装
type userHandler struct {
	UserService service.UserService
}

// 封装函数
func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

// 用处：接收http发来的全部注册信息，用户名+密码+邮箱
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// 注册：1、URL解析为注册请求结构体 2、service层利用Username、Password和Email进行注册 3、返回注册成功后的User
func (h *userHandler) Register(c *gin.Context) {

	var req RegisterRequest
	// c.ShouldBindJSON，绑定和校验，如果context中不包含req的“required”字段，则会返回错误
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("username", req.Username)
	logCtx.Info("开始处理用户注册请求")

	user, err := h.UserService.Register(req.Username, req.Password, req.Email)
	if err != nil {
		logCtx.WithError(err).Error("用户注册业务逻辑处理失败")
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")

	c.JSON(http.StatusOK, gin.H{
		"message": "注册成功",
		"data": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// 登录：1、URL解析为登录结构体 2、Username和Password传给service层，登录服务 3、成功则返回token
func (h *userHandler) Login(c *gin.Context) {

	var login LoginRequest
	// c.ShouldBindJSON，绑定和校验，如果context中不包含req的“required”字段，则会返回错误
	if err := c.ShouldBindJSON(&login); err != nil {
		logger.Log.WithError(err).Error("登录请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("username", login.Username)
	logCtx.Info("开始处理用户登录请求")

	token, err := h.UserService.Login(login.Username, login.Password)
	if err != nil {
		logCtx.WithError(err).Error("用户登录业务逻辑处理失败")
		// 模糊的错误提示，更安全
		sendErrorResponse(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	logCtx.Info("用户登录成功")

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"data": gin.H{
			"token": token,
		},
	})
}

// 获取用户个人信息：1、从context获取认证后用户的userID、Username和角色
func (h *userHandler) GetProfile(c *gin.Context) {
	// 从已经认证后的Context中获取用户信息
	userID, exists := c.Get("userID")
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	username, _ := c.Get("username")
	role, _ := c.Get("role")

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取用户信息",
		"data": gin.H{
			"user_id":  userID,
			"username": username,
			"role":     role,
		},
	})
}

// 用处：接收封禁/解封请求体。active用指针区分“传了false”和“压根没传”
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// 用户列表（管理员）：密码散列不往外吐，其余字段原样返回
func (h *userHandler) ListUsers(c *gin.Context) {
	users, err := h.UserService.ListUsers()
	if err != nil {
		logger.Log.WithError(err).Error("查询用户列表失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询用户列表失败")
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, user := range users {
		list = append(list, gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"role":       user.Role,
			"active":     user.Active,
			"created_at": user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取用户列表",
		"data":    list,
	})
}

// 封禁/解封（管理员）：1、解析路径里的用户ID 2、解析active 3、service层落库
func (h *userHandler) SetUserActive(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID)

	if err := h.UserService.SetUserActive(userID, *req.Active); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			sendErrorResponse(c, http.StatusNotFound, "用户不存在")
			return
		}
		logCtx.WithError(err).Error("更新用户封禁状态失败")
		sendErrorResponse(c, http.StatusInternalServerError, "更新用户状态失败")
		return
	}

	logCtx.WithField("active", *req.Active).Info("用户封禁状态已更新")

	c.JSON(http.StatusOK, gin.H{
		"message": "用户状态已更新",
	})
}

// 改角色（管理员）：1、解析路径里的用户ID 2、解析role 3、service层校验并落库
func (h *userHandler) SetUserRole(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID)

	if err := h.UserService.SetUserRole(userID, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			sendErrorResponse(c, http.StatusNotFound, "用户不存在")
		case errors.Is(err, service.ErrInvalidRole):
			sendErrorDetailResponse(c, http.StatusBadRequest, "无效的参数", "角色只能是user或admin")
		default:
			logCtx.WithError(err).Error("更新用户角色失败")
			sendErrorResponse(c, http.StatusInternalServerError, "更新用户角色失败")
		}
		return
	}

	logCtx.WithField("role", req.Role).Info("用户角色已更新")

	c.JSON(http.StatusOK, gin.H{
		"message": "用户角色已更新",
	})
}
