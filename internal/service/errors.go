package service

import "errors"

var (
	ErrNotSignedIn       = errors.New("user not signed in")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrLogoutInProgress  = errors.New("logout already in progress")
	ErrProductNotFound   = errors.New("product not found")
	ErrSizeRequired      = errors.New("size required for ring products")
	ErrSizeNotAvailable  = errors.New("size not available for product")
	ErrCheckoutIncomplete = errors.New("checkout details incomplete")
)
