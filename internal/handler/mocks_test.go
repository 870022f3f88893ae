package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/homelist/homelist-api/internal/middleware"
	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/service"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Signup(ctx context.Context, in service.SignupInput, role model.Role) (string, error) {
	args := m.Called(ctx, in, role)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) Signin(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) GenerateProductKey(email string, role model.Role) (string, error) {
	args := m.Called(email, role)
	return args.String(0), args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) Search(ctx context.Context, f model.HomeFilter) ([]model.HomeSummary, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.HomeSummary), args.Error(1)
}

func (m *mockCatalog) GetByID(ctx context.Context, id uint64) (model.HomeDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.HomeDetail), args.Error(1)
}

func (m *mockCatalog) Create(ctx context.Context, in service.CreateHome, realtorID uint64) (model.HomeDetail, error) {
	args := m.Called(ctx, in, realtorID)
	return args.Get(0).(model.HomeDetail), args.Error(1)
}

func (m *mockCatalog) Update(ctx context.Context, id uint64, c model.HomeChanges) (model.HomeDetail, error) {
	args := m.Called(ctx, id, c)
	return args.Get(0).(model.HomeDetail), args.Error(1)
}

func (m *mockCatalog) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) AssertOwner(ctx context.Context, homeID uint64, u model.User) error {
	return m.Called(ctx, homeID, u).Error(0)
}

func (m *mockCatalog) Reassign(ctx context.Context, homeID, realtorID uint64) (model.HomeDetail, error) {
	args := m.Called(ctx, homeID, realtorID)
	return args.Get(0).(model.HomeDetail), args.Error(1)
}

type mockMessaging struct{ mock.Mock }

func (m *mockMessaging) Inquire(ctx context.Context, buyer model.User, homeID uint64, text string) (model.Message, error) {
	args := m.Called(ctx, buyer, homeID, text)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *mockMessaging) ListByHome(ctx context.Context, homeID uint64) ([]model.Inquiry, error) {
	args := m.Called(ctx, homeID)
	return args.Get(0).([]model.Inquiry), args.Error(1)
}

// newEcho returns an echo instance with the request validator installed.
func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// asUser stands in for the guard and marks the request as made by u.
func asUser(u model.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetUser(c, u)
			return next(c)
		}
	}
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}


func doWithToken(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
