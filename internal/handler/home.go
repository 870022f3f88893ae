package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/homelist/homelist-api/internal/middleware"
	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/service"
)

// CatalogService is what HomeHandler needs from service.CatalogService.
type CatalogService interface {
	Search(ctx context.Context, f model.HomeFilter) ([]model.HomeSummary, error)
	GetByID(ctx context.Context, id uint64) (model.HomeDetail, error)
	Create(ctx context.Context, in service.CreateHome, realtorID uint64) (model.HomeDetail, error)
	Update(ctx context.Context, id uint64, c model.HomeChanges) (model.HomeDetail, error)
	Delete(ctx context.Context, id uint64) error
	AssertOwner(ctx context.Context, homeID uint64, u model.User) error
	Reassign(ctx context.Context, homeID, realtorID uint64) (model.HomeDetail, error)
}

// MessagingService is what HomeHandler needs from service.MessagingService.
type MessagingService interface {
	Inquire(ctx context.Context, buyer model.User, homeID uint64, text string) (model.Message, error)
	ListByHome(ctx context.Context, homeID uint64) ([]model.Inquiry, error)
}

// HomeHandler serves the /home endpoints.  Role checks happen in the guard
// before these run; ownership checks happen here.
type HomeHandler struct {
	Catalog   CatalogService
	Messaging MessagingService
}

func NewHomeHandler(catalog CatalogService, messaging MessagingService) *HomeHandler {
	return &HomeHandler{Catalog: catalog, Messaging: messaging}
}

// ----- DTOs -----

type imageReq struct {
	URL string `json:"url" validate:"required,url"`
}

type createHomeReq struct {
	Address           string     `json:"address" validate:"required"`
	City              string     `json:"city" validate:"required"`
	Price             float64    `json:"price" validate:"gt=0"`
	LandSize          float64    `json:"land_size" validate:"gt=0"`
	PropertyType      string     `json:"property_type" validate:"required,property_type"`
	NumberOfBedrooms  int        `json:"number_of_bedrooms" validate:"gte=0"`
	NumberOfBathrooms float64    `json:"number_of_bathrooms" validate:"gte=0"`
	Images            []imageReq `json:"images" validate:"dive"`
}

type updateHomeReq struct {
	Address           *string  `json:"address" validate:"omitempty,min=1"`
	City              *string  `json:"city" validate:"omitempty,min=1"`
	Price             *float64 `json:"price" validate:"omitempty,gt=0"`
	LandSize          *float64 `json:"land_size" validate:"omitempty,gt=0"`
	PropertyType      *string  `json:"property_type" validate:"omitempty,property_type"`
	NumberOfBedrooms  *int     `json:"number_of_bedrooms" validate:"omitempty,gte=0"`
	NumberOfBathrooms *float64 `json:"number_of_bathrooms" validate:"omitempty,gte=0"`
}

type reassignReq struct {
	RealtorID uint64 `json:"realtor_id" validate:"required"`
}

type inquireReq struct {
	Message string `json:"message" validate:"required"`
}

func (r updateHomeReq) changes() model.HomeChanges {
	c := model.HomeChanges{
		Address:           r.Address,
		City:              r.City,
		Price:             r.Price,
		LandSize:          r.LandSize,
		NumberOfBedrooms:  r.NumberOfBedrooms,
		NumberOfBathrooms: r.NumberOfBathrooms,
	}
	if r.PropertyType != nil {
		pt, _ := model.ParsePropertyType(*r.PropertyType)
		c.PropertyType = &pt
	}
	return c
}

// parseFilter reads ?city=&minPrice=&maxPrice=&propertyType=.  Empty
// parameters are treated as absent.
func parseFilter(c echo.Context) (model.HomeFilter, string) {
	var f model.HomeFilter
	f.City = strings.TrimSpace(c.QueryParam("city"))

	price := func(name string) (*float64, string) {
		raw := strings.TrimSpace(c.QueryParam(name))
		if raw == "" {
			return nil, ""
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, name + " must be a number"
		}
		return &v, ""
	}
	var msg string
	if f.MinPrice, msg = price("minPrice"); msg != "" {
		return f, msg
	}
	if f.MaxPrice, msg = price("maxPrice"); msg != "" {
		return f, msg
	}
	if raw := c.QueryParam("propertyType"); raw != "" {
		pt, ok := model.ParsePropertyType(raw)
		if !ok {
			return f, "propertyType must be RESIDENTIAL or CONDO"
		}
		f.PropertyType = pt
	}
	return f, ""
}

// List searches homes by the optional query filters.
func (h *HomeHandler) List(c echo.Context) error {
	f, msg := parseFilter(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	homes, err := h.Catalog.Search(ctx, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, homes)
}

// Get returns one home with its images.
func (h *HomeHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	home, err := h.Catalog.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, home)
}

// Create stores a listing owned by the calling realtor or admin.
func (h *HomeHandler) Create(c echo.Context) error {
	u, _ := middleware.UserFrom(c)
	var req createHomeReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	pt, _ := model.ParsePropertyType(req.PropertyType)
	urls := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		urls = append(urls, img.URL)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	home, err := h.Catalog.Create(ctx, service.CreateHome{
		Address:           strings.TrimSpace(req.Address),
		City:              strings.TrimSpace(req.City),
		Price:             req.Price,
		LandSize:          req.LandSize,
		PropertyType:      pt,
		NumberOfBedrooms:  req.NumberOfBedrooms,
		NumberOfBathrooms: req.NumberOfBathrooms,
		Images:            urls,
	}, u.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, home)
}

// Update changes the supplied fields of a home the caller owns.
func (h *HomeHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	u, _ := middleware.UserFrom(c)
	var req updateHomeReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Catalog.AssertOwner(ctx, id, u); err != nil {
		return writeError(c, err)
	}
	home, err := h.Catalog.Update(ctx, id, req.changes())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, home)
}

// Delete removes a home the caller owns.
func (h *HomeHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	u, _ := middleware.UserFrom(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Catalog.AssertOwner(ctx, id, u); err != nil {
		return writeError(c, err)
	}
	if err := h.Catalog.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted Successfully"})
}

// Reassign hands a home over to another realtor.
func (h *HomeHandler) Reassign(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var req reassignReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	home, err := h.Catalog.Reassign(ctx, id, req.RealtorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, home)
}

// Inquire sends a buyer's message to the home's realtor.
func (h *HomeHandler) Inquire(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	u, _ := middleware.UserFrom(c)
	var req inquireReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.Messaging.Inquire(ctx, u, id, strings.TrimSpace(req.Message))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// Messages lists the inquiries about a home; only its realtor may read them.
func (h *HomeHandler) Messages(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	u, _ := middleware.UserFrom(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Catalog.AssertOwner(ctx, id, u); err != nil {
		return writeError(c, err)
	}
	inquiries, err := h.Messaging.ListByHome(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inquiries)
}
