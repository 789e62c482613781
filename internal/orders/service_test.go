package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	orders     map[int64]*Order
	nextID     int64
	lastScope  authz.ScopeFilter
	getError   error
	statusErr  error
	statusSets int
}

func newMockRepository() *mockRepository {
	return &mockRepository{orders: make(map[int64]*Order), nextID: 1}
}

func (m *mockRepository) seed(o Order) *Order {
	if o.ID == 0 {
		o.ID = m.nextID
		m.nextID++
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = &o
	return m.orders[o.ID]
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Order, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, authz.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockRepository) List(_ context.Context, req ListOrdersRequest, scope authz.ScopeFilter) ([]Order, int, error) {
	m.lastScope = scope
	if scope.IsDenyAll() {
		return nil, 0, nil
	}
	constraints := scope.Constraints()
	var out []Order
	for _, o := range m.orders {
		if v, ok := constraints["customer_id"]; ok && o.CustomerID != v {
			continue
		}
		if v, ok := constraints["merchant_id"]; ok && o.MerchantID != v {
			continue
		}
		if req.Status != nil && o.Status != *req.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, o Order) (int64, error) {
	created := m.seed(o)
	return created.ID, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates map[string]any) error {
	o, ok := m.orders[id]
	if !ok {
		return authz.ErrNotFound
	}
	if v, ok := updates["total_amount"]; ok {
		o.TotalAmount = v.(float64)
	}
	if v, ok := updates["notes"]; ok {
		notes := v.(string)
		o.Notes = &notes
	}
	return nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id int64, status Status, userID int64, reason *string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	o, ok := m.orders[id]
	if !ok {
		return authz.ErrNotFound
	}
	m.statusSets++
	o.Status = status
	if status == StatusCancelled {
		now := time.Now()
		o.CancelledBy = &userID
		o.CancelledAt = &now
		o.CancellationReason = reason
	}
	return nil
}

func (m *mockRepository) OwnerInfo(_ context.Context, id int64) (authz.OwnerInfo, error) {
	o, ok := m.orders[id]
	if !ok {
		return authz.OwnerInfo{}, authz.ErrNotFound
	}
	return authz.OwnerInfo{OwnerID: o.CustomerID, MerchantID: o.MerchantID}, nil
}

type memStore struct {
	rows map[string]bool
}

func (s *memStore) ListOverrides(_ context.Context, userID int64) ([]authz.PermissionOverride, error) {
	var out []authz.PermissionOverride
	for _, p := range authz.AllPermissions() {
		if granted, ok := s.rows[fmt.Sprintf("%d/%s", userID, p)]; ok {
			out = append(out, authz.PermissionOverride{UserID: userID, Permission: p, Granted: granted})
		}
	}
	return out, nil
}

func (s *memStore) UpsertOverride(_ context.Context, userID int64, perm authz.Permission, granted bool) error {
	if s.rows == nil {
		s.rows = make(map[string]bool)
	}
	s.rows[fmt.Sprintf("%d/%s", userID, perm)] = granted
	return nil
}

type noDirectory struct{}

func (noDirectory) FindUserRef(context.Context, int64) (authz.UserRef, error) {
	return authz.UserRef{}, authz.ErrNotFound
}

type memAudit struct {
	logs []shared.AuditLog
}

func (a *memAudit) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newTestService(repo *mockRepository, store authz.OverrideStore) (*Service, *memAudit) {
	if store == nil {
		store = &memStore{}
	}
	audit := &memAudit{}
	resolver := authz.NewResolver(store, noDirectory{})
	gate := authz.NewGate(resolver, nil)
	return NewService(repo, gate, nil, audit, nil), audit
}

func mid(v int64) *int64 { return &v }

// ============================================================================
// CANCELLATION
// ============================================================================

func TestCustomerCancelsOwnPendingOrder(t *testing.T) {
	repo := newMockRepository()
	order := repo.seed(Order{CustomerID: 10, MerchantID: 2, Status: StatusPending, Currency: "USD", TotalAmount: 40})
	svc, _ := newTestService(repo, nil)
	customer := &authz.Principal{ID: 10, Role: authz.RoleCustomer, IsActive: true}

	cancelled, err := svc.Cancel(context.Background(), customer, order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, int64(10), *cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "changed my mind", *cancelled.CancellationReason)
}

func TestCustomerCannotCancelForeignOrder(t *testing.T) {
	repo := newMockRepository()
	order := repo.seed(Order{CustomerID: 11, MerchantID: 2, Status: StatusPending})
	svc, audit := newTestService(repo, nil)
	customer := &authz.Principal{ID: 10, Role: authz.RoleCustomer, IsActive: true}

	_, err := svc.Cancel(context.Background(), customer, order.ID, "mine now")
	assert.ErrorIs(t, err, authz.ErrForbidden)
	assert.Zero(t, repo.statusSets)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "order.cancel.denied", audit.logs[0].Action)
}

func TestSelfMerchantConventionOnCancel(t *testing.T) {
	repo := newMockRepository()
	// Merchant id=5 with no merchant_id assigned; order scoped to merchant 5.
	order := repo.seed(Order{CustomerID: 77, MerchantID: 5, Status: StatusConfirmed})
	svc, _ := newTestService(repo, nil)
	merchant := &authz.Principal{ID: 5, Role: authz.RoleMerchant, IsActive: true}

	cancelled, err := svc.Cancel(context.Background(), merchant, order.ID, "out of stock")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestMerchantCancelIgnoresCreatorMatch(t *testing.T) {
	repo := newMockRepository()
	// Merchant created the order themselves, but it belongs to another scope.
	order := repo.seed(Order{CustomerID: 5, MerchantID: 99, Status: StatusPending})
	svc, _ := newTestService(repo, nil)
	merchant := &authz.Principal{ID: 5, Role: authz.RoleMerchant, MerchantID: mid(7), IsActive: true}

	_, err := svc.Cancel(context.Background(), merchant, order.ID, "please")
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestCancelShippedFailsEvenForSuperAdmin(t *testing.T) {
	repo := newMockRepository()
	order := repo.seed(Order{CustomerID: 10, MerchantID: 2, Status: StatusShipped})
	svc, _ := newTestService(repo, nil)
	super := &authz.Principal{ID: 1, Role: authz.RoleSuperAdmin, IsActive: true}

	_, err := svc.Cancel(context.Background(), super, order.ID, "recall")
	assert.ErrorIs(t, err, authz.ErrInvalidState)
	assert.NotErrorIs(t, err, authz.ErrForbidden)
	assert.Zero(t, repo.statusSets)
}

func TestCancelWithRevokedPermission(t *testing.T) {
	repo := newMockRepository()
	order := repo.seed(Order{CustomerID: 10, MerchantID: 2, Status: StatusPending})
	store := &memStore{}
	require.NoError(t, store.UpsertOverride(context.Background(), 10, authz.PermOrdersCancel, false))
	svc, _ := newTestService(repo, store)
	customer := &authz.Principal{ID: 10, Role: authz.RoleCustomer, IsActive: true}

	_, err := svc.Cancel(context.Background(), customer, order.ID, "try anyway")
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

// ============================================================================
// LISTING AND SCOPE
// ============================================================================

func TestListAppliesCustomerScope(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Order{CustomerID: 10, MerchantID: 2, Status: StatusPending})
	repo.seed(Order{CustomerID: 11, MerchantID: 2, Status: StatusPending})
	svc, _ := newTestService(repo, nil)
	customer := &authz.Principal{ID: 10, Role: authz.RoleCustomer, IsActive: true}

	orders, total, err := svc.List(context.Background(), customer, ListOrdersRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(10), orders[0].CustomerID)
	assert.Equal(t, map[string]int64{"customer_id": 10}, repo.lastScope.Constraints())
}

func TestListAppliesMerchantScope(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Order{CustomerID: 10, MerchantID: 7, Status: StatusPending})
	repo.seed(Order{CustomerID: 10, MerchantID: 8, Status: StatusPending})
	svc, _ := newTestService(repo, nil)
	merchant := &authz.Principal{ID: 5, Role: authz.RoleMerchant, MerchantID: mid(7), IsActive: true}

	orders, _, err := svc.List(context.Background(), merchant, ListOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(7), orders[0].MerchantID)
}

func TestListAdminUnrestricted(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Order{CustomerID: 10, MerchantID: 7, Status: StatusPending})
	repo.seed(Order{CustomerID: 11, MerchantID: 8, Status: StatusShipped})
	svc, _ := newTestService(repo, nil)
	admin := &authz.Principal{ID: 2, Role: authz.RoleAdmin, IsActive: true}

	_, total, err := svc.List(context.Background(), admin, ListOrdersRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, repo.lastScope.Constraints())
}

// ============================================================================
// READS, CREATION, UPDATES
// ============================================================================

func TestViewerCanReadButNotUpdate(t *testing.T) {
	repo := newMockRepository()
	order := repo.seed(Order{CustomerID: 10, MerchantID: 2, Status: StatusPending})
	svc, _ := newTestService(repo, nil)
	viewer := &authz.Principal{ID: 3, Role: authz.RoleViewer, IsActive: true}

	_, err := svc.Get(context.Background(), viewer, order.ID)
	assert.NoError(t, err)

	amount := 99.0
	_, err = svc.Update(context.Background(), viewer, order.ID, UpdateOrderRequest{TotalAmount: &amount})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestAdminCannotCreateOrders(t *testing.T) {
	svc, _ := newTestService(newMockRepository(), nil)
	admin := &authz.Principal{ID: 2, Role: authz.RoleAdmin, IsActive: true}

	_, err := svc.Create(context.Background(), admin, CreateOrderRequest{MerchantID: 7, Currency: "USD", TotalAmount: 10})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestCustomerCreatesOwnOrder(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestService(repo, nil)
	customer := &authz.Principal{ID: 10, Role: authz.RoleCustomer, IsActive: true}

	order, err := svc.Create(context.Background(), customer, CreateOrderRequest{MerchantID: 7, Currency: "USD", TotalAmount: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(10), order.CustomerID)
	assert.Equal(t, StatusPending, order.Status)
}

func TestUpdateRequiresPendingStatus(t *testing.T) {
	repo := newMockRepository()
	order := repo.seed(Order{CustomerID: 10, MerchantID: 2, Status: StatusConfirmed})
	svc, _ := newTestService(repo, nil)
	customer := &authz.Principal{ID: 10, Role: authz.RoleCustomer, IsActive: true}

	amount := 12.5
	_, err := svc.Update(context.Background(), customer, order.ID, UpdateOrderRequest{TotalAmount: &amount})
	assert.ErrorIs(t, err, authz.ErrInvalidState)
}

func TestGetMissingOrderIsNotFound(t *testing.T) {
	svc, _ := newTestService(newMockRepository(), nil)
	admin := &authz.Principal{ID: 2, Role: authz.RoleAdmin, IsActive: true}

	_, err := svc.Get(context.Background(), admin, 404)
	assert.ErrorIs(t, err, authz.ErrNotFound)
}
