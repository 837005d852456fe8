package app

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memContexts is an in-memory context table shared by the context and
// customer gateway fakes.
type memContexts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Context
}

func newMemContexts() *memContexts {
	return &memContexts{rows: make(map[uuid.UUID]domain.Context)}
}

func (m *memContexts) put(c domain.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = c
}

func (m *memContexts) FindByID(_ context.Context, id uuid.UUID) (*domain.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("context", id.String())
	}

	return &c, nil
}

func (m *memContexts) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.rows[id]

	return ok, nil
}

func (m *memContexts) CountChildren(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, c := range m.rows {
		if c.ParentContextID != nil && *c.ParentContextID == id {
			n++
		}
	}

	return n, nil
}

// memCustomers exposes the rows of the customer type.
type memCustomers struct {
	store  *memContexts
	typeID uuid.UUID
	saves  int
}

func (m *memCustomers) Save(_ context.Context, c domain.Context) (*domain.Customer, error) {
	m.saves++
	m.store.put(c)

	return domain.NewCustomer(c), nil
}

func (m *memCustomers) FindByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	c, ok := m.store.rows[id]
	if !ok || c.ContextTypeID != m.typeID {
		return nil, domain.NewNotFoundError("customer", id.String())
	}

	return domain.NewCustomer(c), nil
}

func (m *memCustomers) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	c, ok := m.store.rows[id]
	if !ok || c.ContextTypeID != m.typeID {
		return domain.NewNotFoundError("customer", id.String())
	}

	delete(m.store.rows, id)

	return nil
}

// memDirectory serves countries, languages and context types.
type memDirectory struct {
	countries    []domain.Country
	languages    []domain.Language
	contextTypes []domain.ContextType
}

func (d *memDirectory) FindByName(_ context.Context, name domain.ContextTypeName) (*domain.ContextType, error) {
	for _, ct := range d.contextTypes {
		if ct.Name == name {
			return &ct, nil
		}
	}

	return nil, domain.NewNotFoundByError("context type", "name", string(name))
}

type memCountries struct{ *memDirectory }

func (d memCountries) FindByCode(_ context.Context, code string) (*domain.Country, error) {
	for _, c := range d.countries {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}

	return nil, domain.NewNotFoundByError("country", "code", code)
}

func (d memCountries) FindByID(_ context.Context, id uuid.UUID) (*domain.Country, error) {
	for _, c := range d.countries {
		if c.ID == id {
			return &c, nil
		}
	}

	return nil, domain.NewNotFoundError("country", id.String())
}

type memLanguages struct{ *memDirectory }

func (d memLanguages) FindByCode(_ context.Context, code string) (*domain.Language, error) {
	for _, l := range d.languages {
		if strings.EqualFold(l.Code, code) {
			return &l, nil
		}
	}

	return nil, domain.NewNotFoundByError("language", "code", code)
}

func (d memLanguages) FindByID(_ context.Context, id uuid.UUID) (*domain.Language, error) {
	for _, l := range d.languages {
		if l.ID == id {
			return &l, nil
		}
	}

	return nil, domain.NewNotFoundError("language", id.String())
}

// memUsers is an in-memory user table with version checking.
type memUsers struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]domain.User
	saveErr   error
	updateErr error
	listErr   error
}

func newMemUsers() *memUsers {
	return &memUsers{rows: make(map[uuid.UUID]domain.User)}
}

func (m *memUsers) Save(_ context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return nil, m.saveErr
	}

	m.rows[u.ID] = u

	return &u, nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id.String())
	}

	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}

	return nil, domain.NewNotFoundByError("user", "email", email)
}

func (m *memUsers) Update(_ context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil {
		return nil, m.updateErr
	}

	stored, ok := m.rows[u.ID]
	if !ok {
		return nil, domain.NewNotFoundError("user", u.ID.String())
	}

	if stored.RecordVersion != u.RecordVersion {
		return nil, domain.NewConflictError("user", "modified by another transaction")
	}

	u.RecordVersion++
	m.rows[u.ID] = u

	return &u, nil
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.FindByID(ctx, id)
	return err == nil, nil
}

func (m *memUsers) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return domain.NewNotFoundError("user", id.String())
	}

	delete(m.rows, id)

	return nil
}

func (m *memUsers) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	all := make([]domain.User, 0, len(m.rows))
	for _, u := range m.rows {
		all = append(all, u)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })

	if offset >= len(all) {
		return nil, nil
	}

	end := min(offset+limit, len(all))

	return all[offset:end], nil
}

// memRoles is an in-memory role table with version checking.
type memRoles struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Role
}

func newMemRoles() *memRoles {
	return &memRoles{rows: make(map[uuid.UUID]domain.Role)}
}

func (m *memRoles) Save(_ context.Context, r domain.Role) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	m.rows[r.ID] = r

	return &r, nil
}

func (m *memRoles) FindByID(_ context.Context, id uuid.UUID) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("role", id.String())
	}

	return &r, nil
}

func (m *memRoles) FindByInvariantKey(_ context.Context, key string) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.InvariantKey == key {
			return &r, nil
		}
	}

	return nil, domain.NewNotFoundByError("role", "invariantKey", key)
}

func (m *memRoles) Update(_ context.Context, r domain.Role) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.rows[r.ID]
	if !ok {
		return nil, domain.NewNotFoundError("role", r.ID.String())
	}

	if stored.RecordVersion != r.RecordVersion {
		return nil, domain.NewConflictError("role", "modified by another transaction")
	}

	r.RecordVersion++
	m.rows[r.ID] = r

	return &r, nil
}

func (m *memRoles) ExistsByInvariantKey(ctx context.Context, key string) (bool, error) {
	_, err := m.FindByInvariantKey(ctx, key)
	return err == nil, nil
}

func (m *memRoles) ExistsByName(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.Name == name {
			return true, nil
		}
	}

	return false, nil
}

func (m *memRoles) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.FindByID(ctx, id)
	return err == nil, nil
}

func (m *memRoles) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rows, id)

	return nil
}

// mockIdentity is a testify mock of the identity provider gateway.
type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) CreateUser(ctx context.Context, u domain.User, languageCode string) (uuid.UUID, error) {
	args := m.Called(ctx, u, languageCode)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockIdentity) UpdateUser(ctx context.Context, u domain.User, languageCode string) error {
	return m.Called(ctx, u, languageCode).Error(0)
}

func (m *mockIdentity) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)

	u, _ := args.Get(0).(*domain.User)

	return u, args.Error(1)
}

func (m *mockIdentity) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)

	u, _ := args.Get(0).(*domain.User)

	return u, args.Error(1)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, e)

	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}

	return out
}

// customerRecorder is a CustomerOutputPort capturing the last call.
type customerRecorder struct {
	customer *domain.Customer
	context  *domain.Context
	created  bool
	calls    int
	deleted  bool
}

func (r *customerRecorder) Present(customer *domain.Customer, c *domain.Context, created bool) {
	r.calls++
	r.customer = customer
	r.context = c
	r.created = created
}

func (r *customerRecorder) PresentDeleted() {
	r.deleted = true
}

// userRecorder is a UserOutputPort capturing the last output.
type userRecorder struct {
	out   ports.UserOutput
	calls int
}

func (r *userRecorder) Present(out ports.UserOutput) {
	r.calls++
	r.out = out
}

// roleRecorder is a RoleOutputPort capturing the last output.
type roleRecorder struct {
	out   ports.RoleOutput
	calls int
}

func (r *roleRecorder) Present(out ports.RoleOutput) {
	r.calls++
	r.out = out
}
