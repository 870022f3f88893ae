package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/homelist/homelist-api/internal/model"
)

// HomeStore is the persistence CatalogService and MessagingService need.
type HomeStore interface {
	Search(ctx context.Context, f model.HomeFilter) ([]model.HomeSummary, error)
	GetByID(ctx context.Context, id uint64) (model.Home, error)
	Images(ctx context.Context, homeID uint64) ([]model.Image, error)
	Create(ctx context.Context, h *model.Home, urls []string) ([]model.Image, error)
	Update(ctx context.Context, id uint64, c model.HomeChanges) error
	Delete(ctx context.Context, id uint64) error
	Realtor(ctx context.Context, homeID uint64) (model.Contact, error)
	SetRealtor(ctx context.Context, homeID, realtorID uint64) error
}

// CachePurger drops cached listing responses after a mutation.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// CreateHome is a new listing with the URLs of its images.
type CreateHome struct {
	Address           string
	City              string
	Price             float64
	LandSize          float64
	PropertyType      model.PropertyType
	NumberOfBedrooms  int
	NumberOfBathrooms float64
	Images            []string
}

// CatalogService manages home listings.
type CatalogService struct {
	homes HomeStore
	users UserStore
	cache CachePurger
}

// NewCatalogService wires a CatalogService.  cache may be nil.
func NewCatalogService(homes HomeStore, users UserStore, cache CachePurger) *CatalogService {
	return &CatalogService{homes: homes, users: users, cache: cache}
}

// Search lists homes matching every filter present in f.
func (s *CatalogService) Search(ctx context.Context, f model.HomeFilter) ([]model.HomeSummary, error) {
	return s.homes.Search(ctx, f)
}

// GetByID returns a home with all of its images.
func (s *CatalogService) GetByID(ctx context.Context, id uint64) (model.HomeDetail, error) {
	h, err := s.homes.GetByID(ctx, id)
	if err != nil {
		return model.HomeDetail{}, err
	}
	images, err := s.homes.Images(ctx, id)
	if err != nil {
		return model.HomeDetail{}, fmt.Errorf("load images: %w", err)
	}
	return h.Detail(images), nil
}

// Create stores a listing owned by realtorID together with its images.
func (s *CatalogService) Create(ctx context.Context, in CreateHome, realtorID uint64) (model.HomeDetail, error) {
	h := &model.Home{
		Address:           in.Address,
		City:              in.City,
		Price:             in.Price,
		LandSize:          in.LandSize,
		PropertyType:      in.PropertyType,
		NumberOfBedrooms:  in.NumberOfBedrooms,
		NumberOfBathrooms: in.NumberOfBathrooms,
		RealtorID:         realtorID,
	}
	images, err := s.homes.Create(ctx, h, in.Images)
	if err != nil {
		return model.HomeDetail{}, err
	}
	s.purge(ctx)
	return h.Detail(images), nil
}

// Update applies the supplied fields and returns the stored result.
func (s *CatalogService) Update(ctx context.Context, id uint64, c model.HomeChanges) (model.HomeDetail, error) {
	if _, err := s.homes.GetByID(ctx, id); err != nil {
		return model.HomeDetail{}, err
	}
	if err := s.homes.Update(ctx, id, c); err != nil {
		return model.HomeDetail{}, fmt.Errorf("update home: %w", err)
	}
	s.purge(ctx)
	return s.GetByID(ctx, id)
}

// Delete removes a home with its images and inquiries.
func (s *CatalogService) Delete(ctx context.Context, id uint64) error {
	if err := s.homes.Delete(ctx, id); err != nil {
		return err
	}
	s.purge(ctx)
	return nil
}

// OwningRealtor returns the contact of the realtor a home belongs to.
func (s *CatalogService) OwningRealtor(ctx context.Context, homeID uint64) (model.Contact, error) {
	return s.homes.Realtor(ctx, homeID)
}

// AssertOwner is the ownership check shared by every owner-only home
// operation.  The caller must be the home's realtor; holding a role that
// may reach the route is not enough.
func (s *CatalogService) AssertOwner(ctx context.Context, homeID uint64, u model.User) error {
	realtor, err := s.homes.Realtor(ctx, homeID)
	if err != nil {
		return err
	}
	if realtor.ID != u.ID {
		return ErrNotOwner
	}
	return nil
}

// Reassign moves a home to another realtor.  Inquiries already sent stay
// addressed to the previous one.
func (s *CatalogService) Reassign(ctx context.Context, homeID, realtorID uint64) (model.HomeDetail, error) {
	target, err := s.users.GetByID(ctx, realtorID)
	if err != nil {
		return model.HomeDetail{}, err
	}
	if target.Role != model.RoleRealtor {
		return model.HomeDetail{}, ErrNotRealtor
	}
	if err := s.homes.SetRealtor(ctx, homeID, realtorID); err != nil {
		return model.HomeDetail{}, err
	}
	s.purge(ctx)
	return s.GetByID(ctx, homeID)
}

func (s *CatalogService) purge(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Purge(ctx); err != nil {
		slog.Warn("catalog: cache purge failed", "error", err)
	}
}
