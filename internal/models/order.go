package models

import "time"

// Order 订单（下单后由后端返回）
type Order struct {
	ID        string     `json:"id"`        // 订单ID
	UserID    string     `json:"userId"`    // 用户ID
	Items     []CartItem `json:"items"`     // 下单行项快照
	Total     Money      `json:"total"`     // 订单总额（AMD 整数）
	Status    string     `json:"status"`    // 订单状态
	CreatedAt time.Time  `json:"createdAt"` // 创建时间
}

// CheckoutInput 结账输入
type CheckoutInput struct {
	Items   []CartItem `json:"items"`   // 结账行项
	Address string     `json:"address"` // 收货地址
	Phone   string     `json:"phone"`   // 联系电话
}
