package models

// Brand is a sunglasses brand from the seed catalog.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry. Products are read-only once loaded.
type Product struct {
	ID          string   `json:"id"`
	BrandID     string   `json:"brandId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
}
