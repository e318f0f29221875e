package models

import (
	"github.com/aybjewelry-client/internal/constants"
)

// CartItem 购物车行项
type CartItem struct {
	ProductID string `json:"productId"`      // 商品ID
	Name      string `json:"name"`           // 商品名称
	Price     Money  `json:"price"`          // 单价（AMD 整数）
	Quantity  int    `json:"quantity"`       // 数量（≥ 1）
	Size      string `json:"size,omitempty"` // 尺寸（仅戒指分类）
	Category  string `json:"category"`       // 商品分类
	Image     string `json:"image"`          // 商品图片
}

// LineKey 行项唯一键：戒指按 (productId, size) 区分，其余仅按 productId
func (i CartItem) LineKey() string {
	return CartLineKey(i.Category, i.ProductID, i.Size)
}

// Subtotal 行项小计
func (i CartItem) Subtotal() Money {
	return i.Price.MulQuantity(i.Quantity)
}

// CartLineKey 构造行项唯一键
func CartLineKey(category, productID, size string) string {
	if constants.IsSizedCategory(category) && size != "" {
		return productID + "#" + size
	}
	return productID
}

// CartTotal 计算购物车总额
func CartTotal(items []CartItem) Money {
	var total Money
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
