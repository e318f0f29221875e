package api

import (
	"context"
	"net/http"

	"github.com/aybjewelry-client/internal/models"
)

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 登录，返回含 Bearer Token 的用户记录
func (c *Client) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register 注册新用户，成功后直接返回登录态
func (c *Client) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
