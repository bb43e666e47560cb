package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Bill-Pill/sunglasses-io/models"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository_PreservesLoadOrder(t *testing.T) {
	repo := repository.NewInMemoryCatalogRepository()
	repo.Load(
		[]models.Brand{{ID: "2", Name: "Ray Ban"}, {ID: "1", Name: "Oakley"}},
		[]models.Product{{ID: "b", BrandID: "1"}, {ID: "a", BrandID: "2"}},
	)

	brands := repo.Brands(context.Background())
	require.Len(t, brands, 2)
	assert.Equal(t, "2", brands[0].ID)

	products := repo.Products(context.Background())
	products[0].ID = "mutated"
	assert.Equal(t, "b", repo.Products(context.Background())[0].ID)
}

func TestUserRepository_FindByCredentials(t *testing.T) {
	repo := repository.NewInMemoryUserRepository()
	repo.Load([]models.User{
		{Email: "susanna.richards@example.com", Login: models.Login{Username: "yellowleopard753", Password: "jonjon"}},
		{Email: "salvador.jordan@example.com", Login: models.Login{Username: "lazywolf342", Password: "tucker"}},
	})

	u, ok := repo.FindByCredentials(context.Background(), "salvador.jordan@example.com", "tucker")
	require.True(t, ok)
	assert.Equal(t, "lazywolf342", u.Login.Username)

	_, ok = repo.FindByCredentials(context.Background(), "salvador.jordan@example.com", "jonjon")
	assert.False(t, ok)

	_, ok = repo.FindByCredentials(context.Background(), "SALVADOR.JORDAN@example.com", "tucker")
	assert.False(t, ok)

	u, ok = repo.FindByUsername(context.Background(), "yellowleopard753")
	require.True(t, ok)
	assert.Equal(t, "susanna.richards@example.com", u.Email)
}

func TestTokenRepository_RefreshKeepsToken(t *testing.T) {
	repo := repository.NewInMemoryTokenRepository()
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	minted := 0
	mint := func() string {
		minted++
		return fmt.Sprintf("tok-%d", minted)
	}

	first, created := repo.IssueOrRefresh(context.Background(), "alice", t0, mint)
	require.True(t, created)
	assert.Equal(t, "tok-1", first.Token)

	second, created := repo.IssueOrRefresh(context.Background(), "alice", t0.Add(time.Hour), mint)
	assert.False(t, created)
	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, t0.Add(time.Hour), second.LastUpdated)
	assert.Equal(t, 1, minted)

	found, ok := repo.FindByToken(context.Background(), "tok-1")
	require.True(t, ok)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, t0.Add(time.Hour), found.LastUpdated)
}

func TestTokenRepository_RemintsOnCollision(t *testing.T) {
	repo := repository.NewInMemoryTokenRepository()
	values := []string{"same", "same", "other"}
	mint := func() string {
		v := values[0]
		values = values[1:]
		return v
	}

	a, _ := repo.IssueOrRefresh(context.Background(), "alice", time.Now(), mint)
	b, _ := repo.IssueOrRefresh(context.Background(), "bob", time.Now(), mint)

	assert.Equal(t, "same", a.Token)
	assert.Equal(t, "other", b.Token)
}

func TestTokenRepository_ConcurrentFirstLoginMintsOnce(t *testing.T) {
	repo := repository.NewInMemoryTokenRepository()
	var mu sync.Mutex
	minted := 0
	mint := func() string {
		mu.Lock()
		defer mu.Unlock()
		minted++
		return fmt.Sprintf("tok-%d", minted)
	}

	var wg sync.WaitGroup
	tokens := make([]string, 20)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, _ := repo.IssueOrRefresh(context.Background(), "alice", time.Now(), mint)
			tokens[i] = tok.Token
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, minted)
	for _, tok := range tokens {
		assert.Equal(t, "tok-1", tok)
	}
}

func TestCartRepository_UpdateErrorLeavesCartUnchanged(t *testing.T) {
	repo := repository.NewInMemoryCartRepository()
	repo.Seed("alice", []models.CartItem{{ID: "1", Quantity: 2}})

	_, err := repo.Update(context.Background(), "alice", func(items []models.CartItem) ([]models.CartItem, error) {
		items[0].Quantity = 99
		return nil, errors.New("rejected")
	})
	require.Error(t, err)

	cart := repo.Get(context.Background(), "alice")
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestCartRepository_UnknownUserHasEmptyCart(t *testing.T) {
	repo := repository.NewInMemoryCartRepository()
	assert.Empty(t, repo.Get(context.Background(), "nobody"))
}

func TestCartRepository_ConcurrentUpdatesAreSerialized(t *testing.T) {
	repo := repository.NewInMemoryCartRepository()
	repo.Seed("alice", []models.CartItem{{ID: "1", Quantity: 0}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(context.Background(), "alice", func(items []models.CartItem) ([]models.CartItem, error) {
				items[0].Quantity++
				return items, nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Get(context.Background(), "alice")[0].Quantity)
}
