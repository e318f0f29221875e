// Package backendtest 提供店面后端的测试替身：用 gin 实现 REST 契约，
// gorm + 内存 SQLite 保存状态，签发/校验真实的 Bearer Token。
// 仅供 _test 文件使用，发布的二进制不包含后端逻辑
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aybjewelry-client/internal/constants"
	"github.com/aybjewelry-client/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// ProductRow 商品表
type ProductRow struct {
	ID       string `gorm:"primarykey"`
	Name     string
	Category string
	Price    int64
	Image    string
	Sizes    string // 逗号分隔
	InStock  bool
}

// UserRow 用户表
type UserRow struct {
	ID       string `gorm:"primarykey"`
	Name     string
	Surname  string
	Email    string `gorm:"uniqueIndex"`
	Password string
}

// CartRow 购物车表，行项键 (user_id, product_id, size)
type CartRow struct {
	ID        uint   `gorm:"primarykey"`
	UserID    string `gorm:"index"`
	ProductID string
	Size      string
	Quantity  int
}

// WishlistRow 心愿单表，键 (user_id, product_id)
type WishlistRow struct {
	ID        uint   `gorm:"primarykey"`
	UserID    string `gorm:"index"`
	ProductID string
}

// OrderRow 订单表
type OrderRow struct {
	ID        string `gorm:"primarykey"`
	UserID    string `gorm:"index"`
	Total     int64
	Status    string
	ItemsJSON string
	CreatedAt time.Time
}

// Server 店面后端测试替身
type Server struct {
	DB   *gorm.DB
	HTTP *httptest.Server

	secret []byte

	mu       sync.Mutex
	requests map[string]int
	forced   map[string]int
	orderSeq int
}

// New 启动测试后端（随测试结束自动关闭）
func New(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:backendtest_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&ProductRow{}, &UserRow{}, &CartRow{}, &WishlistRow{}, &OrderRow{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	s := &Server{
		DB:       db,
		secret:   []byte("backendtest-secret"),
		requests: make(map[string]int),
		forced:   make(map[string]int),
	}

	engine := gin.New()
	engine.Use(s.track())
	s.routes(engine)
	s.HTTP = httptest.NewServer(engine)
	t.Cleanup(s.HTTP.Close)
	return s
}

// URL 返回后端地址
func (s *Server) URL() string {
	return s.HTTP.URL
}

// Requests 返回指定路由的请求次数，键如 "POST /api/cart/:userId"
func (s *Server) Requests(routeKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[routeKey]
}

// TotalRequests 返回全部请求次数
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

// ForceStatus 强制指定路由返回固定状态码（0 恢复正常）
func (s *Server) ForceStatus(routeKey string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.forced, routeKey)
		return
	}
	s.forced[routeKey] = status
}

// SeedProduct 写入商品
func (s *Server) SeedProduct(t *testing.T, p models.Product) {
	t.Helper()
	row := ProductRow{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    int64(p.Price),
		Image:    p.Image,
		Sizes:    strings.Join(p.Sizes, ","),
		InStock:  p.InStock,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
}

// SeedUser 写入用户并返回含有效 Token 的会话记录
func (s *Server) SeedUser(t *testing.T, id, name, surname, email, password string) *models.User {
	t.Helper()
	row := UserRow{ID: id, Name: name, Surname: surname, Email: email, Password: password}
	if err := s.DB.Create(&row).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return &models.User{
		ID:      id,
		Token:   s.issueToken(t, id),
		Name:    name,
		Surname: surname,
		Email:   email,
	}
}

func (s *Server) issueToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return signed
}

func (s *Server) track() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.FullPath()

		s.mu.Lock()
		s.requests[key]++
		forced := s.forced[key]
		s.mu.Unlock()

		if forced != 0 {
			c.AbortWithStatusJSON(forced, gin.H{"message": "forced failure"})
			return
		}
		c.Next()
	}
}

func (s *Server) routes(engine *gin.Engine) {
	engine.POST("/api/auth/login", s.handleLogin)
	engine.POST("/api/auth/register", s.handleRegister)

	authed := engine.Group("/", s.requireAuth())
	authed.GET("/api/products", s.handleListProducts)
	authed.GET("/api/products/:productId", s.handleGetProduct)

	authed.GET("/api/cart/:userId", s.handleGetCart)
	authed.POST("/api/cart/:userId", s.handleAddCartItem)
	authed.PUT("/api/cart/:userId/:productId", s.handleUpdateCartItem)
	authed.DELETE("/api/cart/:userId/:productId", s.handleDeleteCartItem)
	authed.DELETE("/api/cart/:userId", s.handleClearCart)

	authed.GET("/api/wishlist/:userId", s.handleGetWishlist)
	authed.POST("/api/wishlist/:userId", s.handleAddWishlistItem)
	authed.DELETE("/api/wishlist/:userId/:productId", s.handleDeleteWishlistItem)
	authed.DELETE("/api/wishlist/:userId", s.handleClearWishlist)

	authed.POST("/api/orders/:userId", s.handleCreateOrder)
	authed.GET("/api/orders/:userId", s.handleListOrders)
}

// requireAuth 校验 Bearer Token；带 :userId 的路由要求与 Token 主体一致。
// 商品目录接口匿名可读，与线上行为一致
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.FullPath(), "/api/products") {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		parsed, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		subject, err := parsed.Claims.GetSubject()
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid subject"})
			return
		}
		if userID := c.Param("userId"); userID != "" && userID != subject {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "user mismatch"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
		return
	}
	var user UserRow
	if err := s.DB.Where("email = ? AND password = ?", req.Email, req.Password).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "sign failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"token":   signed,
		"name":    user.Name,
		"surname": user.Surname,
		"email":   user.Email,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Surname  string `json:"surname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
		return
	}
	user := UserRow{
		ID:       fmt.Sprintf("u-%d", time.Now().UnixNano()),
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString(s.secret)
	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"token":   signed,
		"name":    user.Name,
		"surname": user.Surname,
		"email":   user.Email,
	})
}

func (s *Server) handleListProducts(c *gin.Context) {
	query := s.DB.Model(&ProductRow{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []ProductRow
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, rowToProduct(row))
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	var row ProductRow
	if err := s.DB.First(&row, "id = ?", c.Param("productId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	c.JSON(http.StatusOK, rowToProduct(row))
}

func (s *Server) handleGetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cartItems(c.Param("userId")))
}

func (s *Server) handleAddCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
		return
	}
	var product ProductRow
	if err := s.DB.First(&product, "id = ?", req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	// 行项键：戒指按 (productId, size)，其余忽略 size
	size := req.Size
	if !constants.IsSizedCategory(product.Category) {
		size = ""
	}

	userID := c.Param("userId")
	var existing CartRow
	err := s.DB.Where("user_id = ? AND product_id = ? AND size = ?", userID, req.ProductID, size).First(&existing).Error
	if err == nil {
		existing.Quantity += req.Quantity
		if err := s.DB.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
	} else {
		row := CartRow{UserID: userID, ProductID: req.ProductID, Size: size, Quantity: req.Quantity}
		if err := s.DB.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, s.cartItems(userID))
}

func (s *Server) handleUpdateCartItem(c *gin.Context) {
	var req struct {
		Quantity int    `json:"quantity"`
		Size     string `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
		return
	}
	userID := c.Param("userId")
	result := s.DB.Model(&CartRow{}).
		Where("user_id = ? AND product_id = ? AND size = ?", userID, c.Param("productId"), req.Size).
		Update("quantity", req.Quantity)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (s *Server) handleDeleteCartItem(c *gin.Context) {
	userID := c.Param("userId")
	result := s.DB.
		Where("user_id = ? AND product_id = ? AND size = ?", userID, c.Param("productId"), c.Query("size")).
		Delete(&CartRow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleClearCart(c *gin.Context) {
	result := s.DB.Where("user_id = ?", c.Param("userId")).Delete(&CartRow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "cart already empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleGetWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.wishlistItems(c.Param("userId"))})
}

func (s *Server) handleAddWishlistItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
		return
	}
	var product ProductRow
	if err := s.DB.First(&product, "id = ?", req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	userID := c.Param("userId")
	var existing WishlistRow
	err := s.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing).Error
	if err != nil {
		row := WishlistRow{UserID: userID, ProductID: req.ProductID}
		if err := s.DB.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": s.wishlistItems(userID)})
}

func (s *Server) handleDeleteWishlistItem(c *gin.Context) {
	result := s.DB.
		Where("user_id = ? AND product_id = ?", c.Param("userId"), c.Param("productId")).
		Delete(&WishlistRow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "wishlist item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleClearWishlist(c *gin.Context) {
	result := s.DB.Where("user_id = ?", c.Param("userId")).Delete(&WishlistRow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "wishlist already empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req models.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
		return
	}

	s.mu.Lock()
	s.orderSeq++
	orderID := fmt.Sprintf("order-%d", s.orderSeq)
	s.mu.Unlock()

	itemsJSON, _ := json.Marshal(req.Items)
	row := OrderRow{
		ID:        orderID,
		UserID:    c.Param("userId"),
		Total:     int64(models.CartTotal(req.Items)),
		Status:    constants.OrderStatusPending,
		ItemsJSON: string(itemsJSON),
		CreatedAt: time.Now(),
	}
	if err := s.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rowToOrder(row))
}

func (s *Server) handleListOrders(c *gin.Context) {
	var rows []OrderRow
	if err := s.DB.Where("user_id = ?", c.Param("userId")).Order("created_at").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, rowToOrder(row))
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) cartItems(userID string) []models.CartItem {
	var rows []CartRow
	s.DB.Where("user_id = ?", userID).Order("id").Find(&rows)

	items := make([]models.CartItem, 0, len(rows))
	for _, row := range rows {
		var product ProductRow
		if err := s.DB.First(&product, "id = ?", row.ProductID).Error; err != nil {
			continue
		}
		items = append(items, models.CartItem{
			ProductID: row.ProductID,
			Name:      product.Name,
			Price:     models.Money(product.Price),
			Quantity:  row.Quantity,
			Size:      row.Size,
			Category:  product.Category,
			Image:     product.Image,
		})
	}
	return items
}

func (s *Server) wishlistItems(userID string) []models.WishlistItem {
	var rows []WishlistRow
	s.DB.Where("user_id = ?", userID).Order("id").Find(&rows)

	items := make([]models.WishlistItem, 0, len(rows))
	for _, row := range rows {
		var product ProductRow
		if err := s.DB.First(&product, "id = ?", row.ProductID).Error; err != nil {
			continue
		}
		items = append(items, models.WishlistItem{
			ProductID: row.ProductID,
			Name:      product.Name,
			Price:     models.Money(product.Price),
			Category:  product.Category,
			Image:     product.Image,
		})
	}
	return items
}

func rowToProduct(row ProductRow) models.Product {
	var sizes []string
	if row.Sizes != "" {
		sizes = strings.Split(row.Sizes, ",")
	}
	return models.Product{
		ID:       row.ID,
		Name:     row.Name,
		Category: row.Category,
		Price:    models.Money(row.Price),
		Image:    row.Image,
		Sizes:    sizes,
		InStock:  row.InStock,
	}
}

func rowToOrder(row OrderRow) models.Order {
	var items []models.CartItem
	_ = json.Unmarshal([]byte(row.ItemsJSON), &items)
	return models.Order{
		ID:        row.ID,
		UserID:    row.UserID,
		Items:     items,
		Total:     models.Money(row.Total),
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
}
