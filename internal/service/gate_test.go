package service

import (
	"testing"

	"Dino_Museum/internal/model"
)

// 权限门就一条规则：作者本人或管理员。表驱动把四种组合都过一遍
func TestCanMutate(t *testing.T) {
	comment := &model.Comment{ID: 1, UserID: 7}

	tests := []struct {
		name   string
		viewer Viewer
		want   bool
	}{
		{"作者本人", Viewer{ID: 7, Role: model.RoleUser}, true},
		{"管理员", Viewer{ID: 99, Role: model.RoleAdmin}, true},
		{"既是作者又是管理员", Viewer{ID: 7, Role: model.RoleAdmin}, true},
		{"无关路人", Viewer{ID: 8, Role: model.RoleUser}, false},
		{"匿名访客", Viewer{ID: 0, Role: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canMutate(comment, tt.viewer); got != tt.want {
				t.Errorf("canMutate() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}
