package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/customer-service/internal/app"
	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockCustomers struct{ mock.Mock }

func (m *mockCustomers) CreateCustomer(ctx context.Context, in app.CreateCustomerInput, out ports.CustomerOutputPort) error {
	return m.Called(ctx, in, out).Error(0)
}

func (m *mockCustomers) GetCustomer(ctx context.Context, id uuid.UUID, out ports.CustomerOutputPort) error {
	return m.Called(ctx, id, out).Error(0)
}

func (m *mockCustomers) UpdateCustomer(ctx context.Context, in app.UpdateCustomerInput, out ports.CustomerOutputPort) error {
	return m.Called(ctx, in, out).Error(0)
}

func (m *mockCustomers) DeleteCustomer(ctx context.Context, id uuid.UUID, out ports.CustomerOutputPort) error {
	return m.Called(ctx, id, out).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) CreateUser(ctx context.Context, in app.CreateUserInput, out ports.UserOutputPort) error {
	return m.Called(ctx, in, out).Error(0)
}

func (m *mockUsers) UpdateUser(ctx context.Context, in app.UpdateUserInput, out ports.UserOutputPort) error {
	return m.Called(ctx, in, out).Error(0)
}

func (m *mockUsers) GetUserByID(ctx context.Context, id uuid.UUID, out ports.UserOutputPort) error {
	return m.Called(ctx, id, out).Error(0)
}

func (m *mockUsers) GetUserByEmail(ctx context.Context, email string, out ports.UserOutputPort) error {
	return m.Called(ctx, email, out).Error(0)
}

func (m *mockUsers) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockRoles struct{ mock.Mock }

func (m *mockRoles) CreateRole(ctx context.Context, in app.CreateRoleInput, out ports.RoleOutputPort) error {
	return m.Called(ctx, in, out).Error(0)
}

func (m *mockRoles) UpdateRole(ctx context.Context, in app.UpdateRoleInput, out ports.RoleOutputPort) error {
	return m.Called(ctx, in, out).Error(0)
}

func (m *mockRoles) GetRole(ctx context.Context, id uuid.UUID, out ports.RoleOutputPort) error {
	return m.Called(ctx, id, out).Error(0)
}

func (m *mockRoles) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockSweeper struct{ mock.Mock }

func (m *mockSweeper) SweepUsers(ctx context.Context) (*ports.ReconcileReport, error) {
	args := m.Called(ctx)

	report, _ := args.Get(0).(*ports.ReconcileReport)

	return report, args.Error(1)
}

// stubCountries resolves the countries it was built with.
type stubCountries map[uuid.UUID]domain.Country

func (s stubCountries) FindByCode(_ context.Context, code string) (*domain.Country, error) {
	for _, c := range s {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}

	return nil, domain.NewNotFoundByError("country", "code", code)
}

func (s stubCountries) FindByID(_ context.Context, id uuid.UUID) (*domain.Country, error) {
	if c, ok := s[id]; ok {
		return &c, nil
	}

	return nil, domain.NewNotFoundError("country", id.String())
}

// presentCustomer makes a mocked use case call Present on its output port.
func presentCustomer(customer *domain.Customer, created bool) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(2).(ports.CustomerOutputPort).Present(customer, &customer.Context, created)
	}
}

func presentUser(out ports.UserOutput) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(2).(ports.UserOutputPort).Present(out)
	}
}

func presentRole(out ports.RoleOutput) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(2).(ports.RoleOutputPort).Present(out)
	}
}

func serve(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func passthrough(c *gin.Context) { c.Next() }
