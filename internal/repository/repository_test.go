package repository

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type switchProber struct {
	mu     sync.Mutex
	online bool
}

func (p *switchProber) IsAvailable(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *switchProber) set(online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = online
}

func newQueries(t *testing.T) (*cache.Service, *fakeClock, *switchProber) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	prober := &switchProber{online: true}
	svc := cache.New(cache.NewMemoryStore(), cache.Config{
		Retry: cache.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	},
		cache.WithClock(clock.Now),
		cache.WithProber(prober),
		cache.WithRandom(func() float64 { return 1 }),
	)
	return svc, clock, prober
}

type fakeCompanySource struct {
	mu        sync.Mutex
	listCalls int
	getCalls  int
	companies []domain.Company
	company   *domain.Company
}

func (f *fakeCompanySource) ListCompanies(ctx context.Context, query CompanyQuery) ([]domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.companies, nil
}

func (f *fakeCompanySource) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.company, nil
}

func (f *fakeCompanySource) CreateCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	company.ID = "company-new"
	return &company, nil
}

func (f *fakeCompanySource) UpdateCompany(ctx context.Context, id string, fields map[string]any) (*domain.Company, error) {
	return &domain.Company{ID: id, CompanyName: "Updated Ltd"}, nil
}

type fakeEmployeeSource struct {
	mu        sync.Mutex
	listCalls int
	employees []domain.Employee
}

func (f *fakeEmployeeSource) ListEmployees(ctx context.Context, query EmployeeQuery) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.employees, nil
}

func (f *fakeEmployeeSource) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeSource) CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	employee.ID = "employee-new"
	return &employee, nil
}

func (f *fakeEmployeeSource) UpdateEmployee(ctx context.Context, id string, fields map[string]any) (*domain.Employee, error) {
	return &domain.Employee{ID: id}, nil
}

type fakeTaskSource struct {
	mu        sync.Mutex
	listCalls map[string]int
	tasks     []domain.Task
}

func (f *fakeTaskSource) ListTasks(ctx context.Context, query TaskQuery) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listCalls == nil {
		f.listCalls = make(map[string]int)
	}
	f.listCalls[query.CompanyID]++
	return f.tasks, nil
}

func (f *fakeTaskSource) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return nil, nil
}

func (f *fakeTaskSource) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	task.ID = "task-new"
	return &task, nil
}

func (f *fakeTaskSource) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return &domain.Task{ID: id, CompanyID: "company-a", Status: status}, nil
}

func (f *fakeTaskSource) calls(companyID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[companyID]
}

type fakeReceiptSource struct {
	mu        sync.Mutex
	listCalls int
	receipts  []domain.Receipt
}

func (f *fakeReceiptSource) ListReceipts(ctx context.Context, query ReceiptQuery) ([]domain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.receipts, nil
}

func (f *fakeReceiptSource) GetReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	return nil, nil
}

func (f *fakeReceiptSource) CreateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	receipt.ID = "receipt-new"
	return &receipt, nil
}

func TestCompanyRepository_List_CachesBetweenCalls(t *testing.T) {
	// Arrange
	queries, _, _ := newQueries(t)
	source := &fakeCompanySource{companies: []domain.Company{{ID: "company-1", CompanyName: "Acme"}}}
	repo := NewCompanyRepository(source, queries, nil)
	query := CompanyQuery{ActiveOnly: true}

	// Act
	first, firstCached, err1 := repo.List(context.Background(), query, false)
	second, secondCached, err2 := repo.List(context.Background(), query, false)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, 1, source.listCalls)
	assert.False(t, firstCached)
	assert.True(t, secondCached)
	assert.Equal(t, first, second)
}

func TestCompanyRepository_List_RefreshBypassesCache(t *testing.T) {
	// Arrange
	queries, _, _ := newQueries(t)
	source := &fakeCompanySource{companies: []domain.Company{{ID: "company-1"}}}
	repo := NewCompanyRepository(source, queries, nil)

	// Act
	_, _, err1 := repo.List(context.Background(), CompanyQuery{}, false)
	_, fromCache, err2 := repo.List(context.Background(), CompanyQuery{}, true)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, 2, source.listCalls)
	assert.False(t, fromCache)
}

func TestCompanyRepository_List_DistinctQueriesFetchSeparately(t *testing.T) {
	// Arrange
	queries, _, _ := newQueries(t)
	source := &fakeCompanySource{}
	repo := NewCompanyRepository(source, queries, nil)

	// Act
	_, _, _ = repo.List(context.Background(), CompanyQuery{Search: "acme"}, false)
	_, _, _ = repo.List(context.Background(), CompanyQuery{Search: "globex"}, false)
	_, _, _ = repo.List(context.Background(), CompanyQuery{Search: "acme", Page: Page{Number: 2}}, false)

	// Assert
	assert.Equal(t, 3, source.listCalls)
}

func TestCompanyRepository_Get_MissingRecordNotCached(t *testing.T) {
	// Arrange
	queries, _, _ := newQueries(t)
	source := &fakeCompanySource{company: nil}
	repo := NewCompanyRepository(source, queries, nil)

	// Act
	first, _, err1 := repo.Get(context.Background(), "missing", false)
	second, _, err2 := repo.Get(context.Background(), "missing", false)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Nil(t, first)
	assert.Nil(t, second)
	assert.Equal(t, 2, source.getCalls, "nil results must not be cached")
}

func TestCompanyRepository_Create_DropsListEntries(t *testing.T) {
	// Arrange
	queries, _, _ := newQueries(t)
	source := &fakeCompanySource{}
	repo := NewCompanyRepository(source, queries, nil)
	_, _, _ = repo.List(context.Background(), CompanyQuery{}, false)

	// Act
	created, err := repo.Create(context.Background(), domain.Company{CompanyName: "New Ltd"})
	require.NoError(t, err)
	_, fromCache, _ := repo.List(context.Background(), CompanyQuery{}, false)

	// Assert
	assert.Equal(t, "company-new", created.ID)
	assert.False(t, fromCache)
	assert.Equal(t, 2, source.listCalls)
}

func TestCompanyRepository_Update_DropsDetailEntry(t *testing.T) {
	// Arrange
	queries, _, _ := newQueries(t)
	source := &fakeCompanySource{company: &domain.Company{ID: "company-1", CompanyName: "Acme"}}
	repo := NewCompanyRepository(source, queries, nil)
	_, _, _ = repo.Get(context.Background(), "company-1", false)

	// Act
	_, err := repo.Update(context.Background(), "company-1", map[string]any{"company_name": "Updated Ltd"})
	require.NoError(t, err)
	_, fromCache, _ := repo.Get(context.Background(), "company-1", false)

	// Assert
	assert.False(t, fromCache)
	assert.Equal(t, 2, source.getCalls)
}

func TestTaskRepository_UpdateStatus_SparesOtherCompanies(t *testing.T) {
	// Arrange
	queries, _, _ := newQueries(t)
	source := &fakeTaskSource{}
	repo := NewTaskRepository(source, queries, nil)
	_, _, _ = repo.List(context.Background(), TaskQuery{CompanyID: "company-a"}, false)
	_, _, _ = repo.List(context.Background(), TaskQuery{CompanyID: "company-b"}, false)

	// Act: the updated task belongs to company-a.
	_, err := repo.UpdateStatus(context.Background(), "task-1", domain.TaskStatusCompleted)
	require.NoError(t, err)

	_, aCached, _ := repo.List(context.Background(), TaskQuery{CompanyID: "company-a"}, false)
	_, bCached, _ := repo.List(context.Background(), TaskQuery{CompanyID: "company-b"}, false)

	// Assert
	assert.False(t, aCached)
	assert.True(t, bCached)
	assert.Equal(t, 2, source.calls("company-a"))
	assert.Equal(t, 1, source.calls("company-b"))
}

func TestEmployeeRepository_List_ServesStaleWhileOffline(t *testing.T) {
	// Arrange
	queries, clock, prober := newQueries(t)
	source := &fakeEmployeeSource{employees: []domain.Employee{{ID: "employee-1", CompanyID: "company-a"}}}
	repo := NewEmployeeRepository(source, queries, nil)
	query := EmployeeQuery{CompanyID: "company-a"}
	_, _, err := repo.List(context.Background(), query, false)
	require.NoError(t, err)

	clock.Advance(employeeTTL + time.Minute)
	prober.set(false)

	// Act
	employees, fromCache, err := repo.List(context.Background(), query, false)

	// Assert: the expired page is still served, flagged stale.
	require.ErrorIs(t, err, cache.ErrStaleData)
	assert.True(t, fromCache)
	assert.Len(t, employees, 1)
	assert.Equal(t, 1, source.listCalls)
}

func TestReceiptRepository_List_FailsFastWhileOffline(t *testing.T) {
	// Arrange
	queries, clock, prober := newQueries(t)
	source := &fakeReceiptSource{receipts: []domain.Receipt{{ID: "receipt-1"}}}
	repo := NewReceiptRepository(source, queries, nil)
	query := ReceiptQuery{CompanyID: "company-a"}
	_, _, err := repo.List(context.Background(), query, false)
	require.NoError(t, err)

	clock.Advance(receiptTTL + time.Minute)
	prober.set(false)

	// Act
	receipts, _, err := repo.List(context.Background(), query, false)

	// Assert: receipts are not critical data, no stale fallback.
	require.ErrorIs(t, err, cache.ErrNetworkUnavailable)
	assert.Nil(t, receipts)
}

func TestCompanyQuery_CacheKey_Deterministic(t *testing.T) {
	a := CompanyQuery{Search: "acme", ActiveOnly: true, Page: Page{Number: 1, Size: 20}}
	b := CompanyQuery{Search: "acme", ActiveOnly: true, Page: Page{Number: 1, Size: 20}}

	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.True(t, strings.HasPrefix(a.CacheKey(), "companies:list:"))

	b.ActiveOnly = false
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())
}

func TestEmployeeQuery_CacheKey_ScopedByCompany(t *testing.T) {
	scoped := EmployeeQuery{CompanyID: "company-a"}
	unscoped := EmployeeQuery{}

	assert.True(t, strings.HasPrefix(scoped.CacheKey(), "employees:list:company-a:"))
	assert.True(t, strings.HasPrefix(unscoped.CacheKey(), "employees:list:all:"))
}

func TestPage_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		wantFrom int
		wantTo   int
	}{
		{name: "zero value defaults", page: Page{}, wantFrom: 0, wantTo: 19},
		{name: "first page explicit", page: Page{Number: 1, Size: 10}, wantFrom: 0, wantTo: 9},
		{name: "second page", page: Page{Number: 2, Size: 10}, wantFrom: 10, wantTo: 19},
		{name: "custom size", page: Page{Number: 3, Size: 25}, wantFrom: 50, wantTo: 74},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := tt.page.Bounds()
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}
