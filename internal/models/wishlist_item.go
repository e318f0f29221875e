package models

// WishlistItem 心愿单项（按 productId 去重，无尺寸变体）
type WishlistItem struct {
	ProductID string `json:"productId"` // 商品ID
	Name      string `json:"name"`      // 商品名称
	Price     Money  `json:"price"`     // 单价（AMD 整数）
	Category  string `json:"category"`  // 商品分类
	Image     string `json:"image"`     // 商品图片
}
