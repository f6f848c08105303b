package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopscout/backend/internal/domain"
)

func TestRecentProducts_AddAndRecent(t *testing.T) {
	s := NewRecentProducts(50)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, domain.Product{Title: "Nike Shoes", URL: "https://shop.test/1"}))
	require.NoError(t, s.Add(ctx, domain.Product{Title: "Sony Headphones", URL: "https://shop.test/2"}))

	got, err := s.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Nike Shoes", got[0].Title)
	assert.Equal(t, "Sony Headphones", got[1].Title)
}

func TestRecentProducts_RejectsUntitled(t *testing.T) {
	s := NewRecentProducts(50)

	err := s.Add(context.Background(), domain.Product{URL: "https://shop.test/1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, 0, s.Len())
}

func TestRecentProducts_FIFOEviction(t *testing.T) {
	s := NewRecentProducts(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add(ctx, domain.Product{
			Title: fmt.Sprintf("Product %d", i),
			URL:   fmt.Sprintf("https://shop.test/%d", i),
		}))
	}

	got, err := s.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Product 2", got[0].Title)
	assert.Equal(t, "Product 4", got[2].Title)
}

func TestRecentProducts_NoDuplicates(t *testing.T) {
	s := NewRecentProducts(50)
	ctx := context.Background()

	p := domain.Product{Title: "Nike Shoes", URL: "https://shop.test/1"}
	require.NoError(t, s.Add(ctx, p))
	require.NoError(t, s.Add(ctx, p))

	assert.Equal(t, 1, s.Len())
}

func TestRecentProducts_RecentReturnsCopy(t *testing.T) {
	s := NewRecentProducts(50)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, domain.Product{Title: "Nike Shoes", URL: "https://shop.test/1"}))

	got, err := s.Recent(ctx)
	require.NoError(t, err)
	got[0].Title = "mutated"

	again, err := s.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nike Shoes", again[0].Title)
}
