package catalog

import (
	"context"
	"testing"

	"adstxt-validator/internal/mocks"
	"adstxt-validator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIngester_Ingest_Success(t *testing.T) {
	fetcher := new(mocks.MockFetcher)
	fetcher.On("FetchSellersJSON", mock.Anything, "google.com").
		Return(`{"version":"1.0","sellers":[{"seller_id":"pub-1","name":"Example","domain":"example.com","seller_type":"PUBLISHER"}]}`, nil)

	store := NewMemoryStore()
	ingester := NewIngester(fetcher, store, mocks.NewRelaxedLogger())

	err := ingester.Ingest(context.Background(), "Google.COM")
	require.NoError(t, err)

	result, err := store.BatchGetSellers(context.Background(), "google.com", []string{"pub-1"})
	require.NoError(t, err)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, models.CatalogStatusSuccess, result.Metadata.Status)
	assert.True(t, result.Results[0].Found)
	fetcher.AssertExpectations(t)
}

func TestIngester_Ingest_NotFoundRecorded(t *testing.T) {
	fetcher := new(mocks.MockFetcher)
	fetcher.On("FetchSellersJSON", mock.Anything, "missing.com").
		Return("", models.ErrFileNotFound)

	store := NewMemoryStore()
	ingester := NewIngester(fetcher, store, mocks.NewRelaxedLogger())

	err := ingester.Ingest(context.Background(), "missing.com")
	assert.ErrorIs(t, err, models.ErrFileNotFound)

	// The failure is remembered so the domain is not retried on every run.
	info, err := store.GetCacheInfo(context.Background(), "missing.com")
	require.NoError(t, err)
	assert.True(t, info.IsCached)
	assert.Equal(t, models.CatalogStatusNotFound, info.Status)
}

func TestIngester_Ingest_MalformedBodyRecorded(t *testing.T) {
	fetcher := new(mocks.MockFetcher)
	fetcher.On("FetchSellersJSON", mock.Anything, "broken.com").
		Return("<html>service unavailable</html>", nil)

	store := NewMemoryStore()
	ingester := NewIngester(fetcher, store, mocks.NewRelaxedLogger())

	err := ingester.Ingest(context.Background(), "broken.com")
	assert.ErrorIs(t, err, models.ErrSellersJSONMalformed)

	info, err := store.GetCacheInfo(context.Background(), "broken.com")
	require.NoError(t, err)
	assert.Equal(t, models.CatalogStatusError, info.Status)
}
