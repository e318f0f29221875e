package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aybjewelry-client/internal/constants"
	"github.com/aybjewelry-client/internal/models"
)

// renderProducts 渲染商品列表（画廊视图）
func renderProducts(out io.Writer, products []models.Product, inWishlist func(string) bool, inCart func(string) bool) {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\t\t")
	for _, p := range products {
		marks := ""
		if inWishlist(p.ID) {
			marks += "♥"
		}
		if inCart(p.ID) {
			marks += "🛒"
		}
		stock := ""
		if !p.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			p.ID, p.Name, p.Category, p.Price.String(), constants.CurrencyAMD, marks, stock)
	}
	_ = w.Flush()
}

// renderProductDetail 渲染商品详情视图
func renderProductDetail(out io.Writer, p *models.Product, inWishlist, inCart bool) {
	fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(out, "  Category: %s\n", p.Category)
	fmt.Fprintf(out, "  Price:    %s %s\n", p.Price.String(), constants.CurrencyAMD)
	if len(p.Sizes) > 0 {
		fmt.Fprintf(out, "  Sizes:    %s\n", strings.Join(p.Sizes, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(out, "  %s\n", p.Description)
	}
	if inWishlist {
		fmt.Fprintln(out, "  In your wishlist ♥")
	}
	if inCart {
		fmt.Fprintln(out, "  In your cart 🛒")
	}
}

// renderCart 渲染购物车视图
func renderCart(out io.Writer, items []models.CartItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			item.ProductID, item.Name, item.Size, item.Quantity,
			item.Price.String(), item.Subtotal().String())
	}
	_ = w.Flush()
	fmt.Fprintf(out, "Total: %s %s\n", models.CartTotal(items).String(), constants.CurrencyAMD)
}

// renderWishlist 渲染心愿单视图
func renderWishlist(out io.Writer, items []models.WishlistItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Your wishlist is empty.")
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			item.ProductID, item.Name, item.Category, item.Price.String())
	}
	_ = w.Flush()
}

// renderOrders 渲染历史订单视图
func renderOrders(out io.Writer, orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders yet.")
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTATUS\tITEMS\tTOTAL\tPLACED")
	for _, order := range orders {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s %s\t%s\n",
			order.ID, order.Status, len(order.Items),
			order.Total.String(), constants.CurrencyAMD,
			order.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}
