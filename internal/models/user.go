package models

import "strings"

// User 会话用户记录（token 为后端签发的不透明 Bearer 凭证）
type User struct {
	ID      string `json:"id"`      // 用户ID
	Token   string `json:"token"`   // Bearer Token（客户端不解析）
	Name    string `json:"name"`    // 名
	Surname string `json:"surname"` // 姓
	Email   string `json:"email"`   // 邮箱
}

// SignedIn 判断是否为有效登录态
func (u *User) SignedIn() bool {
	return u != nil && strings.TrimSpace(u.ID) != "" && strings.TrimSpace(u.Token) != ""
}

// FullName 返回展示用全名
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.Name + " " + u.Surname)
}
