package tarkov

import (
	"context"
	"errors"
	"time"

	"fleaflip/pkg/logging"
)

// DataSource defines the interface for loading raw item records.
// Implementations issue exactly one query per call and never retry.
type DataSource interface {
	// FetchItems returns every item the source knows about, in source order.
	FetchItems(ctx context.Context) ([]RawItemRecord, error)

	// Name returns a description of this data source.
	Name() string
}

// APIDataSource fetches data directly from the tarkov.dev API.
type APIDataSource struct {
	client *Client
}

// NewAPIDataSource creates a data source backed by a fresh client.
func NewAPIDataSource(config *ClientConfig) *APIDataSource {
	return &APIDataSource{client: NewClient(config)}
}

// NewAPIDataSourceWithClient creates a data source with an existing client.
func NewAPIDataSourceWithClient(client *Client) *APIDataSource {
	return &APIDataSource{client: client}
}

func (s *APIDataSource) Name() string {
	return "tarkov.dev GraphQL API"
}

func (s *APIDataSource) FetchItems(ctx context.Context) ([]RawItemRecord, error) {
	return s.client.QueryItems(ctx)
}

// CatalogBuilder produces ranked catalogs from a data source.
type CatalogBuilder struct {
	source       DataSource
	marketVendor string
	logger       *logging.Logger
}

// NewCatalogBuilder creates a builder. An empty marketVendor means
// DefaultMarketVendor.
func NewCatalogBuilder(source DataSource, marketVendor string, logger *logging.Logger) *CatalogBuilder {
	if marketVendor == "" {
		marketVendor = DefaultMarketVendor
	}
	return &CatalogBuilder{
		source:       source,
		marketVendor: marketVendor,
		logger:       logger,
	}
}

// BuildCatalog fetches once and ranks the result. It either returns a
// complete catalog or a *DataSourceError, never a partial catalog. The call
// blocks; deadlines come from ctx.
func (b *CatalogBuilder) BuildCatalog(ctx context.Context) (Catalog, error) {
	start := time.Now()
	b.logger.APICall("tarkov_api", b.source.Name(), "query items")

	records, err := b.source.FetchItems(ctx)
	if err != nil {
		var dsErr *DataSourceError
		if !errors.As(err, &dsErr) {
			err = &DataSourceError{Op: "fetch items", Err: err}
		}
		b.logger.APIError("tarkov_api", b.source.Name(), err, time.Since(start).Seconds(), statusOf(err))
		return Catalog{}, err
	}

	missing := 0
	for _, record := range records {
		if record.Low24hPrice == nil {
			missing++
		}
	}
	if missing > 0 {
		b.logger.WithTarkov().WithField("items", missing).Debug("24h low price unavailable, items excluded")
	}

	catalog := NewCatalog(records, b.marketVendor)
	b.logger.CatalogBuilt(b.source.Name(), len(records), catalog.Len(), missing, time.Since(start).Seconds())

	return catalog, nil
}

func statusOf(err error) int {
	var dsErr *DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.StatusCode
	}
	return 0
}
