package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// 不带detail时，响应里不应该出现detail这个key
func TestSendErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	sendErrorResponse(c, http.StatusNotFound, "评论不存在")

	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码不对，期待404，拿到%d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应体解析失败: %v", err)
	}
	if body.Error != "评论不存在" {
		t.Fatalf("错误信息不对: %s", body.Error)
	}
	if strings.Contains(w.Body.String(), "detail") {
		t.Fatalf("没传detail就不该序列化出来: %s", w.Body.String())
	}
}

func TestSendErrorDetailResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	sendErrorDetailResponse(c, http.StatusBadRequest, "无效的投票方向", "方向只能是positive或negative")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码不对，期待400，拿到%d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应体解析失败: %v", err)
	}
	if body.Error != "无效的投票方向" {
		t.Fatalf("错误信息不对: %s", body.Error)
	}
	if body.Detail != "方向只能是positive或negative" {
		t.Fatalf("detail不对: %s", body.Detail)
	}
}
