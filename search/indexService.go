package search

import (
	"fmt"

	"inventory-gateway-backend/api"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"
)

const productIndexName = "products"

// ProductDocument is the searchable projection of a backend product. Prices
// are indexed as strings so decimals survive the round trip unchanged.
type ProductDocument struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Description  string `json:"description"`
	Barcode      string `json:"barcode"`
	Category     string `json:"category"`
	Supplier     string `json:"supplier"`
	Supermarket  string `json:"supermarket"`
	SellingPrice string `json:"selling_price"`
	ExpiryDate   string `json:"expiry_date"`
}

// IndexService maintains a local bleve index of products the gateway has
// created, so the UI can search without a remote round trip. It is a
// disposable convenience index: the backend stays the store of record.
type IndexService struct {
	index  bleve.Index
	logger *zap.Logger
}

func NewIndexService(logger *zap.Logger, basePath string) (*IndexService, error) {
	fullPath := fmt.Sprintf("%s/%s.bleve", basePath, productIndexName)

	idx, err := bleve.Open(fullPath)
	if err != nil {
		mapping := bleve.NewIndexMapping()
		idx, err = bleve.New(fullPath, mapping)
		if err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", fullPath, err)
		}
	}

	return &IndexService{index: idx, logger: logger}, nil
}

// IndexProduct adds or replaces one product in the index. Callers treat
// failures as best-effort: an index error never fails the originating
// create/import operation.
func (s *IndexService) IndexProduct(product api.Product) error {
	doc := ProductDocument{
		ID:           product.ID,
		Name:         product.Name,
		Brand:        product.Brand,
		Description:  product.Description,
		Barcode:      product.Barcode,
		Category:     product.Category,
		Supplier:     product.Supplier,
		Supermarket:  product.Supermarket,
		SellingPrice: product.SellingPrice.String(),
		ExpiryDate:   product.ExpiryDate,
	}

	if err := s.index.Index(product.ID, doc); err != nil {
		s.logger.Error("Failed to index product", zap.String("id", product.ID), zap.Error(err))
		return err
	}
	return nil
}

// DeleteProduct removes a product from the index after a backend delete.
func (s *IndexService) DeleteProduct(id string) error {
	return s.index.Delete(id)
}

// SearchResult is one hit with its stored fields.
type SearchResult struct {
	ID     string                 `json:"id"`
	Score  float64                `json:"score"`
	Fields map[string]interface{} `json:"fields"`
}

// SearchProducts runs a match query against the index, falling back to a
// prefix query so partial names still hit.
func (s *IndexService) SearchProducts(queryString string, size int) ([]SearchResult, error) {
	if size <= 0 || size > 100 {
		size = 20
	}

	matchQuery := bleve.NewMatchQuery(queryString)
	prefixQuery := bleve.NewPrefixQuery(queryString)
	q := bleve.NewDisjunctionQuery(matchQuery, prefixQuery)

	request := bleve.NewSearchRequestOptions(q, size, 0, false)
	request.Fields = []string{"*"}

	result, err := s.index.Search(request)
	if err != nil {
		s.logger.Error("Product search failed", zap.String("query", queryString), zap.Error(err))
		return nil, err
	}

	hits := make([]SearchResult, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, SearchResult{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}
	return hits, nil
}

// Close releases the underlying index files.
func (s *IndexService) Close() error {
	return s.index.Close()
}
