package models

// Product 商品
type Product struct {
	ID          string   `json:"id"`              // 商品ID
	Name        string   `json:"name"`            // 商品名称
	Description string   `json:"description"`     // 商品描述
	Category    string   `json:"category"`        // 分类（ring / necklace / bracelet / earring）
	Price       Money    `json:"price"`           // 单价（AMD 整数）
	Image       string   `json:"image"`           // 主图
	Sizes       []string `json:"sizes,omitempty"` // 可选尺寸（仅戒指）
	InStock     bool     `json:"inStock"`         // 是否有货
}

// HasSize 判断商品是否提供指定尺寸
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// ToWishlistItem 转换为心愿单项
func (p *Product) ToWishlistItem() WishlistItem {
	return WishlistItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Image:     p.Image,
	}
}
