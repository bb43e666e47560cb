package repository

import (
	"context"
	"sync"

	"github.com/Bill-Pill/sunglasses-io/models"
)

// CartMutation receives a private copy of a cart and returns the new contents.
// Returning an error leaves the stored cart untouched.
type CartMutation func(items []models.CartItem) ([]models.CartItem, error)

// CartRepository holds one cart per username.
type CartRepository interface {
	Seed(username string, items []models.CartItem)
	Get(ctx context.Context, username string) []models.CartItem
	Update(ctx context.Context, username string, fn CartMutation) ([]models.CartItem, error)
}

type userCart struct {
	mu    sync.Mutex
	items []models.CartItem
}

// InMemoryCartRepository serializes mutations per user; carts of different
// users never contend.
type InMemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*userCart
}

func NewInMemoryCartRepository() *InMemoryCartRepository {
	return &InMemoryCartRepository{carts: make(map[string]*userCart)}
}

// Seed replaces the cart of username.
func (r *InMemoryCartRepository) Seed(username string, items []models.CartItem) {
	cart := r.cartFor(username)
	cart.mu.Lock()
	cart.items = models.CopyCart(items)
	cart.mu.Unlock()
}

// Get returns a copy of the cart. Unknown users have an empty cart.
func (r *InMemoryCartRepository) Get(_ context.Context, username string) []models.CartItem {
	cart := r.cartFor(username)
	cart.mu.Lock()
	defer cart.mu.Unlock()
	return models.CopyCart(cart.items)
}

// Update runs fn while holding the user's lock and stores its result.
func (r *InMemoryCartRepository) Update(ctx context.Context, username string, fn CartMutation) ([]models.CartItem, error) {
	cart := r.cartFor(username)
	cart.mu.Lock()
	defer cart.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next, err := fn(models.CopyCart(cart.items))
	if err != nil {
		return nil, err
	}
	cart.items = models.CopyCart(next)
	return models.CopyCart(cart.items), nil
}

func (r *InMemoryCartRepository) cartFor(username string) *userCart {
	r.mu.RLock()
	cart, ok := r.carts[username]
	r.mu.RUnlock()
	if ok {
		return cart
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cart, ok = r.carts[username]; !ok {
		cart = &userCart{}
		r.carts[username] = cart
	}
	return cart
}
