package seed

import (
	"context"

	"github.com/Bill-Pill/sunglasses-io/models"
	"github.com/Bill-Pill/sunglasses-io/repository"
)

// CatalogLoader is satisfied by services.CatalogService.
type CatalogLoader interface {
	Load(ctx context.Context, brands []models.Brand, products []models.Product)
}

// Apply installs ds into the running stores. Each user's seed cart becomes
// that user's live cart; a missing cart is an empty one. Like the user
// directory, only the first user with a given username counts.
func Apply(ctx context.Context, ds *Dataset, catalog CatalogLoader, users repository.UserRepository, carts repository.CartRepository) {
	catalog.Load(ctx, ds.Brands, ds.Products)
	users.Load(ds.Users)

	seen := make(map[string]struct{}, len(ds.Users))
	for _, u := range ds.Users {
		if _, dup := seen[u.Login.Username]; dup {
			continue
		}
		seen[u.Login.Username] = struct{}{}
		carts.Seed(u.Login.Username, u.Cart)
	}
}
