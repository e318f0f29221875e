package constants

// 商品分类常量
const (
	CategoryRing     = "ring"
	CategoryNecklace = "necklace"
	CategoryBracelet = "bracelet"
	CategoryEarring  = "earring"
)

// 货币常量
const (
	CurrencyAMD = "AMD"
)

// 会话存储常量
const (
	SessionKeyLoggedInUser = "loggedInUser"
)

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// IsSizedCategory 判断分类是否按尺寸区分购物车行项
func IsSizedCategory(category string) bool {
	return category == CategoryRing
}
