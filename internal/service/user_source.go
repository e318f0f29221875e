package service

import "github.com/aybjewelry-client/internal/models"

// UserSource 当前登录用户来源（由 AuthService 实现，显式注入替代全局单例）
type UserSource interface {
	CurrentUser() *models.User
}

// StaticUser 固定用户的 UserSource（测试用）
type StaticUser struct {
	User *models.User
}

// CurrentUser 实现 UserSource
func (s StaticUser) CurrentUser() *models.User {
	return s.User
}
