package catalog

import (
	"context"
	"testing"
	"time"

	"adstxt-validator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_BatchGetSellers_Success(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	meta := &models.SellersMetadata{
		AuthorityDomain: "google.com",
		SellerCount:     2,
		Status:          models.CatalogStatusSuccess,
		FetchedAt:       time.Now().UTC(),
	}
	sellers := []models.Seller{
		{SellerID: "pub-1", Name: "Example Publisher", Domain: "example.com", SellerType: models.SellerTypePublisher},
		{SellerID: "pub-2", Name: "Example Network", Domain: "network.com", SellerType: models.SellerTypeIntermediary},
	}
	require.NoError(t, store.UpsertSnapshot(ctx, meta, sellers))

	result, err := store.BatchGetSellers(ctx, "Google.COM", []string{"pub-1", "pub-9"})

	require.NoError(t, err)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "google.com", result.Metadata.AuthorityDomain)
	assert.True(t, result.Cache.IsCached)
	require.Len(t, result.Results, 2)

	assert.True(t, result.Results[0].Found)
	require.NotNil(t, result.Results[0].Seller)
	assert.Equal(t, "Example Publisher", result.Results[0].Seller.Name)
	assert.Equal(t, 1, result.Results[0].Matches)

	assert.False(t, result.Results[1].Found)
	assert.Nil(t, result.Results[1].Seller)
}

func TestMemoryStore_BatchGetSellers_DuplicateIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	meta := &models.SellersMetadata{
		AuthorityDomain: "openx.com",
		Status:          models.CatalogStatusSuccess,
		FetchedAt:       time.Now().UTC(),
		DuplicateIDs:    []string{"pub-1"},
	}
	sellers := []models.Seller{
		{SellerID: "pub-1", Name: "First", SellerType: models.SellerTypePublisher},
	}
	require.NoError(t, store.UpsertSnapshot(ctx, meta, sellers))

	result, err := store.BatchGetSellers(ctx, "openx.com", []string{"pub-1"})

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Found)
	// Deduplicated snapshots keep the first entry but report the collision.
	assert.Equal(t, "First", result.Results[0].Seller.Name)
	assert.GreaterOrEqual(t, result.Results[0].Matches, 2)
}

func TestMemoryStore_BatchGetSellers_NeverFetched(t *testing.T) {
	store := NewMemoryStore()

	result, err := store.BatchGetSellers(context.Background(), "unknown.com", []string{"pub-1"})

	require.NoError(t, err)
	assert.Nil(t, result.Metadata)
	assert.False(t, result.Cache.IsCached)
	assert.Equal(t, models.CatalogStatusNotFetched, result.Cache.Status)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Found)
}

func TestMemoryStore_BatchGetSellers_AfterFetchFailure(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.RecordFetchFailure(ctx, "broken.com", models.CatalogStatusNotFound))

	result, err := store.BatchGetSellers(ctx, "broken.com", []string{"pub-1"})

	require.NoError(t, err)
	assert.Nil(t, result.Metadata)
	assert.True(t, result.Cache.IsCached)
	assert.Equal(t, models.CatalogStatusNotFound, result.Cache.Status)
}

func TestMemoryStore_UpsertSnapshot_Replaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	meta := &models.SellersMetadata{
		AuthorityDomain: "google.com",
		Status:          models.CatalogStatusSuccess,
		FetchedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.UpsertSnapshot(ctx, meta, []models.Seller{{SellerID: "pub-1"}}))
	require.NoError(t, store.UpsertSnapshot(ctx, meta, []models.Seller{{SellerID: "pub-2"}}))

	result, err := store.BatchGetSellers(ctx, "google.com", []string{"pub-1", "pub-2"})

	require.NoError(t, err)
	assert.False(t, result.Results[0].Found)
	assert.True(t, result.Results[1].Found)
}

func TestMemoryStore_GetCacheInfo(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	info, err := store.GetCacheInfo(ctx, "fresh.com")
	require.NoError(t, err)
	assert.False(t, info.IsCached)
	assert.Equal(t, models.CatalogStatusNotFetched, info.Status)

	fetchedAt := time.Now().UTC()
	require.NoError(t, store.UpsertSnapshot(ctx, &models.SellersMetadata{
		AuthorityDomain: "fresh.com",
		Status:          models.CatalogStatusSuccess,
		FetchedAt:       fetchedAt,
	}, nil))

	info, err = store.GetCacheInfo(ctx, "fresh.com")
	require.NoError(t, err)
	assert.True(t, info.IsCached)
	assert.Equal(t, models.CatalogStatusSuccess, info.Status)
	require.NotNil(t, info.LastUpdated)
	assert.WithinDuration(t, fetchedAt, *info.LastUpdated, time.Second)
}
