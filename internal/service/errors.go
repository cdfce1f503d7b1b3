package service

import "errors"

// 业务错误统一定义成哨兵错误，handler层用errors.Is翻译成HTTP状态码。
// 注意“评论不存在”和“无权操作”是两个不同的错误：内部必须分清，
// 对外怎么展示（404还是403，还是像老版本那样一律装没看见）由边界自己决定
var (
	ErrDinosaurNotFound = errors.New("恐龙不存在")
	ErrCommentNotFound  = errors.New("评论不存在")
	ErrNotAllowed       = errors.New("只有作者或管理员可以操作")
	ErrEmptyContent     = errors.New("评论内容不能为空")
	ErrInvalidPolarity  = errors.New("无效的投票方向")
	ErrWrongSubject     = errors.New("不能回复其他恐龙下的评论")

	ErrUserNotFound = errors.New("用户不存在")
	ErrInvalidRole  = errors.New("无效的角色")
)
