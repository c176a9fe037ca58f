package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
	"github.com/ghhamo/lootsy/internal/repository"
)

var (
	ErrShippingNotFound = newError(ErrNotFound, "shipping not found")
	ErrShippingInUse    = newError(ErrValidation, "shipping is referenced by an order")
	ErrShippingInvalid  = newError(ErrValidation, "all shipping fields are required")
)

type ShippingService struct {
	shippingRepo repository.ShippingRepository
}

func NewShippingService(shippingRepo repository.ShippingRepository) *ShippingService {
	return &ShippingService{shippingRepo: shippingRepo}
}

func (s *ShippingService) Create(ctx context.Context, req dto.ShippingDTO) (*dto.ShippingDTO, error) {
	shipping := dto.ToShipping(req)
	shipping.ID = 0
	if !complete(shipping) {
		return nil, ErrShippingInvalid
	}
	if err := s.shippingRepo.Create(ctx, shipping); err != nil {
		return nil, fmt.Errorf("create shipping: %w", err)
	}
	resp := dto.FromShipping(shipping)
	return &resp, nil
}

func (s *ShippingService) List(ctx context.Context, page dto.Pagination) (*dto.Page[dto.ShippingDTO], error) {
	shippings, err := s.shippingRepo.List(ctx, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list shippings: %w", err)
	}
	total, err := s.shippingRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count shippings: %w", err)
	}

	items := make([]dto.ShippingDTO, 0, len(shippings))
	for i := range shippings {
		items = append(items, dto.FromShipping(&shippings[i]))
	}
	return &dto.Page[dto.ShippingDTO]{Items: items, Total: total, PageIndex: page.PageIndex, PageSize: page.PageSize}, nil
}

func (s *ShippingService) GetByID(ctx context.Context, id int64) (*dto.ShippingDTO, error) {
	shipping, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromShipping(shipping)
	return &resp, nil
}

// Update applies the non-nil fields of req.
func (s *ShippingService) Update(ctx context.Context, id int64, req dto.UpdateShippingRequest) (*dto.ShippingDTO, error) {
	shipping, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&shipping.FirstName, req.FirstName)
	set(&shipping.LastName, req.LastName)
	set(&shipping.Country, req.Country)
	set(&shipping.City, req.City)
	set(&shipping.StreetAddress, req.StreetAddress)
	set(&shipping.PhoneNumber, req.PhoneNumber)
	if !complete(shipping) {
		return nil, ErrShippingInvalid
	}

	if err := s.shippingRepo.Update(ctx, shipping); err != nil {
		return nil, fmt.Errorf("update shipping: %w", err)
	}
	resp := dto.FromShipping(shipping)
	return &resp, nil
}

func (s *ShippingService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.shippingRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrShippingInUse
		}
		return fmt.Errorf("delete shipping: %w", err)
	}
	if !deleted {
		return ErrShippingNotFound
	}
	return nil
}

func (s *ShippingService) get(ctx context.Context, id int64) (*model.Shipping, error) {
	shipping, err := s.shippingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipping: %w", err)
	}
	if shipping == nil {
		return nil, ErrShippingNotFound
	}
	return shipping, nil
}

func complete(s *model.Shipping) bool {
	for _, f := range []string{s.FirstName, s.LastName, s.Country, s.City, s.StreetAddress, s.PhoneNumber} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}
