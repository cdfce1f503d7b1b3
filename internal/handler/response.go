package handler

import "github.com/gin-gonic/gin"

// ErrorResponse 定义了标准的API错误响应结构
// Detail是可选的补充说明，比如参数到底错在哪，没有就不序列化
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// sendErrorDetailResponse 在标准错误上多带一句具体说明
func sendErrorDetailResponse(c *gin.Context, code int, message, detail string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message, Detail: detail})
}
