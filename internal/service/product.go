package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
	"github.com/ghhamo/lootsy/internal/repository"
)

var (
	ErrProductNotFound = newError(ErrNotFound, "product not found")
	ErrInvalidPrice    = newError(ErrValidation, "price must be a non-negative decimal")
)

// SearchMode is the one filter combination a catalog query resolves to.
type SearchMode int

const (
	ModeAll SearchMode = iota
	ModePriceRange
	ModeCategories
	ModeSearch
	ModeSearchCategories
	ModeCategoriesPriceRange
	ModeSearchPriceRange
	ModeSearchCategoriesPriceRange
)

var searchModeNames = map[SearchMode]string{
	ModeAll:                        "all",
	ModePriceRange:                 "price",
	ModeCategories:                 "categories",
	ModeSearch:                     "search",
	ModeSearchCategories:           "search+categories",
	ModeCategoriesPriceRange:       "categories+price",
	ModeSearchPriceRange:           "search+price",
	ModeSearchCategoriesPriceRange: "search+categories+price",
}

func (m SearchMode) String() string { return searchModeNames[m] }

// Classify trims the search text and picks exactly one mode. The returned query keeps only
// the filters that mode uses; a price range needs both bounds.
func Classify(q dto.ProductQuery) (SearchMode, dto.ProductQuery) {
	q.Search = strings.TrimSpace(q.Search)
	hasSearch := q.Search != ""
	hasCategories := len(q.CategoryIDs) > 0
	hasPrice := q.MinPrice != nil && q.MaxPrice != nil

	var mode SearchMode
	switch {
	case hasSearch && hasCategories && hasPrice:
		mode = ModeSearchCategoriesPriceRange
	case hasSearch && hasPrice:
		mode = ModeSearchPriceRange
	case hasCategories && hasPrice:
		mode = ModeCategoriesPriceRange
	case hasSearch && hasCategories:
		mode = ModeSearchCategories
	case hasSearch:
		mode = ModeSearch
	case hasCategories:
		mode = ModeCategories
	case hasPrice:
		mode = ModePriceRange
	default:
		mode = ModeAll
	}

	if !hasPrice {
		q.MinPrice, q.MaxPrice = nil, nil
	}
	if !hasCategories {
		q.CategoryIDs = nil
	}
	return mode, q
}

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	redisClient  *redis.Client
	cacheTTL     time.Duration
	imageBaseURL string
	logger       *slog.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	imageBaseURL string,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo, categoryRepo: categoryRepo,
		redisClient: redisClient, cacheTTL: cacheTTL,
		imageBaseURL: imageBaseURL, logger: logger,
	}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductHomePageResponse, error) {
	product, err := s.build(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := dto.FromProductHomePage(product, s.imageBaseURL)
	return &resp, nil
}

// CreateBatch validates every request first and then stores all products or none.
func (s *ProductService) CreateBatch(ctx context.Context, reqs []dto.CreateProductRequest) (int, error) {
	categories := make(map[int64]*model.Category)
	products := make([]model.Product, 0, len(reqs))
	for _, req := range reqs {
		product, err := s.build(ctx, req, categories)
		if err != nil {
			return 0, fmt.Errorf("product %q: %w", req.Name, err)
		}
		products = append(products, *product)
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return 0, ErrCategoryNotFound
		}
		return 0, fmt.Errorf("create products: %w", err)
	}
	return len(products), nil
}

// build validates req into a product. Categories already looked up are kept in seen when it is non-nil.
func (s *ProductService) build(ctx context.Context, req dto.CreateProductRequest, seen map[int64]*model.Category) (*model.Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	category, ok := seen[req.CategoryID]
	if !ok {
		category, err = s.categoryRepo.GetByID(ctx, req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		if seen != nil {
			seen[req.CategoryID] = category
		}
	}

	return &model.Product{
		Name:         req.Name,
		Price:        price.Round(2),
		Description:  req.Description,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		ImageURLS:    req.ImageURLS,
		ImageURLM:    req.ImageURLM,
		ImageURLL:    req.ImageURLL,
	}, nil
}

func (s *ProductService) List(ctx context.Context, q dto.ProductQuery, page dto.Pagination) (*dto.Page[dto.ProductHomePageResponse], error) {
	mode, q := Classify(q)
	s.logger.DebugContext(ctx, "product query", "mode", mode.String(), "page_index", page.PageIndex, "page_size", page.PageSize)

	products, total, err := s.productRepo.Search(ctx, q, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductHomePageResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.FromProductHomePage(&products[i], s.imageBaseURL))
	}
	return &dto.Page[dto.ProductHomePageResponse]{Items: items, Total: total, PageIndex: page.PageIndex, PageSize: page.PageSize}, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*dto.ProductHomePageResponse, error) {
	cacheKey := "product:" + strconv.FormatInt(id, 10)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ProductHomePageResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProductHomePage(product, s.imageBaseURL)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return &resp, nil
}

func (s *ProductService) GetDetails(ctx context.Context, id int64) (*dto.ProductDetailsResponse, error) {
	product, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProductDetails(product, s.imageBaseURL)
	return &resp, nil
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	n, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

var exportHeaders = []string{"ID", "Name", "Price", "Category", "Description", "ImageS", "ImageM", "ImageL", "CreatedAt", "UpdatedAt"}

// ExportXLSX writes every product as one sheet.
func (s *ProductService) ExportXLSX(ctx context.Context, w io.Writer) error {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt64(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		row.AddCell().SetString(p.CategoryName)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.ImageURLS)
		row.AddCell().SetString(p.ImageURLM)
		row.AddCell().SetString(p.ImageURLL)
		row.AddCell().SetString(p.CreatedAt.Format(time.DateTime))
		row.AddCell().SetString(p.UpdatedAt.Format(time.DateTime))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func (s *ProductService) get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
