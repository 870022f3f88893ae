package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/homelist/homelist-api/internal/middleware"
	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/service"
)

// AuthService is what AuthHandler needs from service.AuthService.
type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput, role model.Role) (string, error)
	Signin(ctx context.Context, email, password string) (string, error)
	GenerateProductKey(email string, role model.Role) (string, error)
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	Auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type signupReq struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	ProductKey string `json:"productKey"`
}

type signinReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type productKeyReq struct {
	Email    string `json:"email" validate:"required,email"`
	UserType string `json:"userType" validate:"required,role"`
}

type tokenResp struct {
	Token string `json:"token"`
}

type meResp struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Signup registers a user of the role named in the path.
func (h *AuthHandler) Signup(c echo.Context) error {
	role, ok := model.ParseRole(c.Param("userType"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userType must be BUYER, REALTOR or ADMIN"})
	}
	var req signupReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, err := h.Auth.Signup(ctx, service.SignupInput{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   req.Password,
		Phone:      strings.TrimSpace(req.Phone),
		ProductKey: strings.TrimSpace(req.ProductKey),
	}, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, tokenResp{Token: token})
}

// Signin exchanges credentials for a session token.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, err := h.Auth.Signin(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResp{Token: token})
}

// ProductKey mints the key a realtor or admin registrant must present.
func (h *AuthHandler) ProductKey(c echo.Context) error {
	var req productKeyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	role, _ := model.ParseRole(req.UserType)
	key, err := h.Auth.GenerateProductKey(req.Email, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"product_key": key})
}

// Me echoes the verified token of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, meResp{
		ID:        id.ID,
		Name:      id.Name,
		IssuedAt:  id.IssuedAt.Unix(),
		ExpiresAt: id.ExpiresAt.Unix(),
	})
}
