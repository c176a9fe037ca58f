package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/service"
)

type userCreator interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
}

type categoryCreator interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type productCreator interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, reqs []dto.CreateProductRequest) (int, error)
}

type imageFetcher interface {
	Fetch(ctx context.Context) (ProductImages, error)
}

// Seeder fills an empty catalog with demo categories, users and products.
type Seeder struct {
	users      userCreator
	categories categoryCreator
	products   productCreator
	images     imageFetcher
	folder     string
	log        *slog.Logger
}

func NewSeeder(users userCreator, categories categoryCreator, products productCreator, images imageFetcher, folder string, log *slog.Logger) *Seeder {
	return &Seeder{users: users, categories: categories, products: products, images: images, folder: folder, log: log}
}

// Run always purges the image folder. Data is only written when there are no products yet.
// Images are downloaded before anything is stored and products go in as one batch, so a run
// that fails part way can simply be repeated: existing categories and users are reused.
func (s *Seeder) Run(ctx context.Context) error {
	s.log.Info("seeding started")

	removed, err := Purge(s.folder)
	if err != nil {
		return fmt.Errorf("purge images: %w", err)
	}
	s.log.Info("purged image folder", "folder", s.folder, "removed", removed)

	count, err := s.products.Count(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		s.log.Info("catalog not empty, skipping seed", "products", count)
		return nil
	}

	images, err := s.fetchImages(ctx)
	if err != nil {
		return err
	}
	categoryIDs, err := s.seedCategories(ctx)
	if err != nil {
		return err
	}
	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	if err := s.seedProducts(ctx, categoryIDs, images); err != nil {
		return err
	}

	s.log.Info("seeding completed", "categories", len(categoryIDs), "users", len(users)+1, "products", len(products))
	return nil
}

func (s *Seeder) fetchImages(ctx context.Context) ([]ProductImages, error) {
	images := make([]ProductImages, 0, len(products))
	for i, p := range products {
		img, err := s.images.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch image for %q: %w", p.name, err)
		}
		images = append(images, img)
		if (i+1)%10 == 0 {
			s.log.Info("fetching images", "done", i+1, "total", len(products))
		}
	}
	return images, nil
}

func (s *Seeder) seedCategories(ctx context.Context) ([]int64, error) {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	ids := make([]int64, 0, len(categories))
	created := 0
	for _, c := range categories {
		if id, ok := byName[c.name]; ok {
			ids = append(ids, id)
			continue
		}
		resp, err := s.categories.Create(ctx, dto.CreateCategoryRequest{Name: c.name, Description: c.description})
		if err != nil {
			return nil, fmt.Errorf("create category %q: %w", c.name, err)
		}
		ids = append(ids, resp.ID)
		created++
	}
	s.log.Info("created categories", "count", created, "reused", len(ids)-created)
	return ids, nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	reqs := make([]dto.CreateUserRequest, 0, len(users)+1)
	for _, u := range users {
		reqs = append(reqs, dto.CreateUserRequest{
			Name:        u.name,
			Surname:     u.surname,
			Email:       strings.ToLower(u.name) + "." + strings.ToLower(u.surname) + "@example.com",
			Password:    demoPassword,
			PhoneNumber: u.phone,
		})
	}
	reqs = append(reqs, dto.CreateUserRequest{
		Name: owner.name, Surname: owner.surname, Email: owner.email,
		Password: owner.password, PhoneNumber: owner.phone,
	})

	created := 0
	for _, req := range reqs {
		_, err := s.users.CreateUser(ctx, req)
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			continue
		case err != nil:
			return fmt.Errorf("create user %s: %w", req.Email, err)
		}
		created++
	}
	s.log.Info("created users", "count", created, "existing", len(reqs)-created)
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context, categoryIDs []int64, images []ProductImages) error {
	reqs := make([]dto.CreateProductRequest, 0, len(products))
	for i, p := range products {
		reqs = append(reqs, dto.CreateProductRequest{
			Name:        p.name,
			Price:       p.price,
			Description: p.description,
			CategoryID:  categoryIDs[p.category],
			ImageURLS:   images[i].Small,
			ImageURLM:   images[i].Medium,
			ImageURLL:   images[i].Large,
		})
	}
	n, err := s.products.CreateBatch(ctx, reqs)
	if err != nil {
		return fmt.Errorf("create products: %w", err)
	}
	s.log.Info("created products", "count", n)
	return nil
}
