package vision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

const fallbackExplanation = "We could not analyze this image right now. " +
	"Try a clearer photo of the product front label, or search by name instead."

const maxImageBytes = 8 << 20

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// SearchResult pairs the model's reading of the photo with catalog matches.
type SearchResult struct {
	Analysis Analysis         `json:"analysis"`
	Products []models.Product `json:"products"`
	Fallback bool             `json:"fallback"`
}

// Service matches product photos against the catalog.
type Service interface {
	SearchByImage(ctx context.Context, image []byte, mimeType string, params pagination.Params) (*SearchResult, error)
}

type service struct {
	analyzer Analyzer
	products products.Repository
	stock    config.StockConfig
	now      func() time.Time
}

// NewService builds the vision search service.
func NewService(analyzer Analyzer, productRepo products.Repository, stock config.StockConfig) (Service, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{
		analyzer: analyzer,
		products: productRepo,
		stock:    stock,
		now:      time.Now,
	}, nil
}

func (s *service) SearchByImage(ctx context.Context, image []byte, mimeType string, params pagination.Params) (*SearchResult, error) {
	if len(image) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	if len(image) > maxImageBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the size limit")
	}
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type")
	}

	analysis, err := s.analyzer.Analyze(ctx, image, mimeType)
	if err != nil {
		// The model being down is not the customer's problem; hand back an
		// explanation instead of an error.
		return &SearchResult{
			Analysis: Analysis{Description: fallbackExplanation},
			Products: []models.Product{},
			Fallback: true,
		}, nil
	}

	params = pagination.Normalize(params)
	now := s.now()
	seen := make(map[uuid.UUID]struct{})
	matches := make([]models.Product, 0, params.Limit)

	for _, keyword := range analysis.Keywords {
		if len(matches) >= params.Limit {
			break
		}
		found, _, err := s.products.List(ctx, pagination.Params{Page: 1, Limit: params.Limit}, products.Filters{Search: keyword})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
		}
		for _, product := range found {
			if _, dup := seen[product.ID]; dup {
				continue
			}
			seen[product.ID] = struct{}{}
			matches = append(matches, products.DecorateSale(product, now, s.stock.AutoSaleDays))
			if len(matches) >= params.Limit {
				break
			}
		}
	}

	return &SearchResult{Analysis: *analysis, Products: matches}, nil
}
