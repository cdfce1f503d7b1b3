package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// parseToken 验证"Bearer [token]"并返回claims。
// 流程：1、从http请求中取出"Authorization"字段 2、验证"Bearer [token]" 3、通过secretKey验证token有效性
func parseToken(c *gin.Context) (jwt.MapClaims, error) {
	// 拿到http协议请求头中的Authorization字段
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("请求未包含授权令牌")
	}

	// 通常Token的格式是 "Bearer [token]"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("授权令牌格式不正确")
	}

	tokenString := parts[1]
	secretKey := []byte(os.Getenv("JWT_SECRET_KEY"))

	// 解析Token，返回加密前的token（Header.Payload.Signature），还附带valid判断是否有效
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 确保签名方法是对称加密族
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("无效的授权令牌")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("无效的授权令牌")
	}
	return claims, nil
}

// AuthMiddleware 是个中间件工厂：闭包捕获userRepo，每次请求都回表确认用户还存在、没被封禁。
// token里的role不可信（签发之后角色可能变了），以数据库为准。
// 流程：1、解析并验证token 2、回表查用户 3、把用户信息放入context，供后续handler使用
func AuthMiddleware(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err != nil {
			// 立刻调用c.Abort()，阻止后续的任何处理器（包括其他中间件和最终的handler）被执行
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的授权令牌"})
			return
		}
		user, err := userRepo.FindByID(uint64(userIDFloat))
		if err != nil || !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "账号不存在或已被封禁"})
			return
		}

		// Token验证成功！将用户信息存入Context，以便后续使用
		c.Set("userID", claims["user_id"])
		c.Set("username", user.Username)
		c.Set("role", user.Role)

		// 放行，继续处理请求
		c.Next()
	}
}

// OptionalAuth 可选认证：没带token或者token无效就当匿名访客放行，不拦截。
// 评论树这种公开接口用它，登录用户能多看到自己投过的票
func OptionalAuth(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err != nil {
			c.Next()
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.Next()
			return
		}
		user, err := userRepo.FindByID(uint64(userIDFloat))
		if err != nil || !user.Active {
			c.Next()
			return
		}
		c.Set("userID", claims["user_id"])
		c.Set("username", user.Username)
		c.Set("role", user.Role)
		c.Next()
	}
}

// AdminRequired 必须挂在AuthMiddleware后面，检查context里的角色
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}
