package models

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID          string   `json:"id"`
	BrandID     string   `json:"brandId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
	Quantity    int      `json:"quantity"`
}

// AddToCartRequest is the product payload posted to the cart. Price is a
// pointer so a missing price can be told apart from a zero price.
type AddToCartRequest struct {
	ID          string   `json:"id" validate:"required"`
	BrandID     string   `json:"brandId" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
}

// ToCartItem builds a new cart line with quantity 1.
func (r AddToCartRequest) ToCartItem() CartItem {
	item := CartItem{
		ID:          r.ID,
		BrandID:     r.BrandID,
		Name:        r.Name,
		Description: r.Description,
		Quantity:    1,
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
	if len(r.ImageURLs) > 0 {
		item.ImageURLs = append([]string(nil), r.ImageURLs...)
	}
	return item
}

// CopyCart returns a deep copy of items so callers never share backing arrays
// with the repository.
func CopyCart(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.ImageURLs != nil {
			out[i].ImageURLs = append([]string(nil), item.ImageURLs...)
		}
	}
	return out
}
