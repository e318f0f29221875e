package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/constants"
	"github.com/aybjewelry-client/internal/provider"
	"github.com/aybjewelry-client/internal/service"
)

// Shell 终端店面：每个命令对应一个界面入口（画廊、详情、购物车、
// 心愿单、结账），各入口独立调用服务操作并经由总线保持同步
type Shell struct {
	container *provider.Container
	badge     *Badge
	in        *bufio.Scanner
	out       io.Writer
}

// NewShell 创建终端店面
func NewShell(container *provider.Container, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		container: container,
		badge:     NewBadge(container.Bus, container.CartService, container.WishlistService),
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run 运行命令循环直到 exit 或输入结束
func (s *Shell) Run(ctx context.Context) error {
	defer s.badge.Close()

	// 启动时恢复登录态并同步镜像
	if user := s.container.AuthService.CurrentUser(); user.SignedIn() {
		fmt.Fprintf(s.out, "Welcome back, %s!\n", user.FullName())
		s.container.CartService.FetchCart(ctx)
		s.container.WishlistService.FetchWishlist(ctx)
	}
	fmt.Fprintln(s.out, `Type "help" for available commands.`)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s %s> ", s.badge.Render(), s.promptUser())
		if !s.in.Scan() {
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		s.dispatch(ctx, args)
	}
}

func (s *Shell) promptUser() string {
	if user := s.container.AuthService.CurrentUser(); user.SignedIn() {
		return user.Name
	}
	return "guest"
}

func (s *Shell) dispatch(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		s.printHelp()
	case "login":
		s.cmdLogin(ctx, args[1:])
	case "register":
		s.cmdRegister(ctx, args[1:])
	case "logout":
		s.cmdLogout(ctx)
	case "products":
		s.cmdProducts(ctx, args[1:])
	case "product":
		s.cmdProduct(ctx, args[1:])
	case "cart":
		s.cmdCart(ctx, args[1:])
	case "wish":
		s.cmdWish(ctx, args[1:])
	case "checkout":
		s.cmdCheckout(ctx, args[1:])
	case "orders":
		s.cmdOrders(ctx)
	default:
		fmt.Fprintf(s.out, "Unknown command %q, try \"help\".\n", args[0])
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  products [category]                browse the gallery (ring/necklace/bracelet/earring)
  product <id>                       product detail
  cart                               show cart
  cart add <id> [qty] [size]         add to cart
  cart qty <id> <qty> [size]         change quantity
  cart rm <id> [size]                remove line item
  cart clear                         empty the cart
  wish                               show wishlist
  wish <id>                          toggle wishlist
  wish move <id> [size]              move wishlist item to cart
  checkout <address> <phone>         place an order
  orders                             order history
  login <email> <password>           sign in
  register <name> <surname> <email> <password>
  logout                             sign out
  exit
`)
}

// requireSignIn 未登录时呈现登录引导（操作本身不会发起请求）
func (s *Shell) requireSignIn() bool {
	if s.container.AuthService.CurrentUser().SignedIn() {
		return true
	}
	fmt.Fprintln(s.out, "Please log in first: login <email> <password>")
	return false
}

// guardPending 同一商品有进行中的请求时禁用重复触发
func (s *Shell) guardPending(pending func(string) bool, productID string) bool {
	if pending(productID) {
		fmt.Fprintln(s.out, "Still working on that item, one moment...")
		return false
	}
	return true
}

func (s *Shell) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: login <email> <password>")
		return
	}
	user, err := s.container.AuthService.Login(ctx, args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Login failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Welcome, %s!\n", user.FullName())
	s.container.CartService.FetchCart(ctx)
	s.container.WishlistService.FetchWishlist(ctx)
}

func (s *Shell) cmdRegister(ctx context.Context, args []string) {
	if len(args) != 4 {
		fmt.Fprintln(s.out, "Usage: register <name> <surname> <email> <password>")
		return
	}
	user, err := s.container.AuthService.Register(ctx, api.RegisterInput{
		Name:     args[0],
		Surname:  args[1],
		Email:    args[2],
		Password: args[3],
	})
	if err != nil {
		fmt.Fprintf(s.out, "Registration failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Welcome, %s!\n", user.FullName())
}

func (s *Shell) cmdLogout(ctx context.Context) {
	err := s.container.AuthService.Logout(ctx)
	switch {
	case errors.Is(err, service.ErrLogoutInProgress):
		fmt.Fprintln(s.out, "Already signing out...")
	case err != nil:
		fmt.Fprintf(s.out, "Sign out failed: %v\n", err)
	default:
		fmt.Fprintln(s.out, "Signed out.")
	}
}

func (s *Shell) cmdProducts(ctx context.Context, args []string) {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	products, err := s.container.ProductService.ListByCategory(ctx, category)
	if err != nil {
		fmt.Fprintf(s.out, "Couldn't load products: %v\n", err)
		return
	}
	renderProducts(s.out, products,
		s.container.WishlistService.IsWishlistItem,
		s.container.CartService.IsCartItem,
	)
}

func (s *Shell) cmdProduct(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: product <id>")
		return
	}
	product, err := s.container.ProductService.GetByID(ctx, args[0])
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			fmt.Fprintln(s.out, "Product not found.")
			return
		}
		fmt.Fprintf(s.out, "Couldn't load product: %v\n", err)
		return
	}
	renderProductDetail(s.out, product,
		s.container.WishlistService.IsWishlistItem(product.ID),
		s.container.CartService.IsCartItem(product.ID),
	)
}

func (s *Shell) cmdCart(ctx context.Context, args []string) {
	if len(args) == 0 {
		if !s.requireSignIn() {
			return
		}
		renderCart(s.out, s.container.CartService.FetchCart(ctx))
		return
	}

	switch args[0] {
	case "add":
		s.cmdCartAdd(ctx, args[1:])
	case "qty":
		s.cmdCartQty(ctx, args[1:])
	case "rm":
		s.cmdCartRemove(ctx, args[1:])
	case "clear":
		if !s.requireSignIn() {
			return
		}
		s.container.CartService.ClearCart(ctx)
		fmt.Fprintln(s.out, "Cart cleared.")
	default:
		fmt.Fprintln(s.out, "Usage: cart [add|qty|rm|clear]")
	}
}

func (s *Shell) cmdCartAdd(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: cart add <id> [qty] [size]")
		return
	}
	if !s.requireSignIn() {
		return
	}
	productID := args[0]
	if !s.guardPending(s.container.CartService.Pending, productID) {
		return
	}

	quantity := 1
	size := ""
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil || parsed < 1 {
			fmt.Fprintln(s.out, "Quantity must be a positive number.")
			return
		}
		quantity = parsed
	}
	if len(args) > 2 {
		size = args[2]
	}

	// 戒指必须选尺寸，在输入边界校验而非依赖后端拒绝
	product, err := s.container.ProductService.GetByID(ctx, productID)
	if err != nil {
		fmt.Fprintln(s.out, "Product not found.")
		return
	}
	switch err := service.ValidateSizeSelection(product, size); {
	case errors.Is(err, service.ErrSizeRequired):
		fmt.Fprintf(s.out, "Please choose a size (%s): cart add %s %d <size>\n",
			strings.Join(product.Sizes, ", "), productID, quantity)
		return
	case errors.Is(err, service.ErrSizeNotAvailable):
		fmt.Fprintf(s.out, "Size %q is not available for this ring.\n", size)
		return
	}
	if !constants.IsSizedCategory(product.Category) {
		size = ""
	}

	s.container.CartService.AddToCart(ctx, productID, quantity, size)
	fmt.Fprintf(s.out, "Added %s to your cart.\n", product.Name)
}

func (s *Shell) cmdCartQty(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: cart qty <id> <qty> [size]")
		return
	}
	if !s.requireSignIn() {
		return
	}
	productID := args[0]
	if !s.guardPending(s.container.CartService.Pending, productID) {
		return
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil || quantity < 1 {
		fmt.Fprintln(s.out, "Quantity must be at least 1 (use \"cart rm\" to remove).")
		return
	}
	size := ""
	if len(args) > 2 {
		size = args[2]
	}
	s.container.CartService.UpdateCartItem(ctx, productID, quantity, size)
}

func (s *Shell) cmdCartRemove(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: cart rm <id> [size]")
		return
	}
	if !s.requireSignIn() {
		return
	}
	productID := args[0]
	if !s.guardPending(s.container.CartService.Pending, productID) {
		return
	}
	size := ""
	if len(args) > 1 {
		size = args[1]
	}
	s.container.CartService.RemoveFromCart(ctx, productID, size)
}

func (s *Shell) cmdWish(ctx context.Context, args []string) {
	if len(args) == 0 {
		if !s.requireSignIn() {
			return
		}
		renderWishlist(s.out, s.container.WishlistService.FetchWishlist(ctx))
		return
	}
	if args[0] == "move" {
		s.cmdWishMove(ctx, args[1:])
		return
	}

	if !s.requireSignIn() {
		return
	}
	productID := args[0]
	if !s.guardPending(s.container.WishlistService.Pending, productID) {
		return
	}
	product, err := s.container.ProductService.GetByID(ctx, productID)
	if err != nil {
		fmt.Fprintln(s.out, "Product not found.")
		return
	}
	s.container.WishlistService.ToggleWishlist(ctx, product)
	if s.container.WishlistService.IsWishlistItem(productID) {
		fmt.Fprintf(s.out, "Added %s to your wishlist ♥\n", product.Name)
	} else {
		fmt.Fprintf(s.out, "Removed %s from your wishlist.\n", product.Name)
	}
}

func (s *Shell) cmdWishMove(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: wish move <id> [size]")
		return
	}
	if !s.requireSignIn() {
		return
	}
	productID := args[0]
	if !s.guardPending(s.container.WishlistService.Pending, productID) {
		return
	}
	product, err := s.container.ProductService.GetByID(ctx, productID)
	if err != nil {
		fmt.Fprintln(s.out, "Product not found.")
		return
	}
	size := ""
	if len(args) > 1 {
		size = args[1]
	}
	switch err := service.ValidateSizeSelection(product, size); {
	case errors.Is(err, service.ErrSizeRequired):
		fmt.Fprintf(s.out, "Please choose a size (%s): wish move %s <size>\n",
			strings.Join(product.Sizes, ", "), productID)
		return
	case errors.Is(err, service.ErrSizeNotAvailable):
		fmt.Fprintf(s.out, "Size %q is not available for this ring.\n", size)
		return
	}
	s.container.WishlistService.MoveToCart(ctx, product, size)
	fmt.Fprintf(s.out, "Moved %s to your cart.\n", product.Name)
}

func (s *Shell) cmdCheckout(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: checkout <address> <phone>")
		return
	}
	if !s.requireSignIn() {
		return
	}
	phone := args[len(args)-1]
	address := strings.Join(args[:len(args)-1], " ")

	order, err := s.container.OrderService.Checkout(ctx, address, phone)
	switch {
	case errors.Is(err, service.ErrCartEmpty):
		fmt.Fprintln(s.out, "Your cart is empty.")
	case err != nil:
		fmt.Fprintf(s.out, "Checkout failed: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Order %s placed! Total %s %s.\n",
			order.ID, order.Total.String(), constants.CurrencyAMD)
	}
}

func (s *Shell) cmdOrders(ctx context.Context) {
	if !s.requireSignIn() {
		return
	}
	orders, err := s.container.OrderService.ListOrders(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Couldn't load orders: %v\n", err)
		return
	}
	renderOrders(s.out, orders)
}
