package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"jobly/internal/config"
	"jobly/internal/domain"
	"jobly/internal/infra/auth/token"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

type memoryCompanies struct {
	mu         sync.Mutex
	byHandle   map[string]domain.Company
	lastFilter domain.CompanyFilter
}

func newMemoryCompanies(seed ...domain.Company) *memoryCompanies {
	m := &memoryCompanies{byHandle: map[string]domain.Company{}}
	for _, c := range seed {
		m.byHandle[c.Handle] = c
	}
	return m
}

func (m *memoryCompanies) Create(_ context.Context, company domain.Company) (domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHandle[company.Handle]; ok {
		return domain.Company{}, fmt.Errorf("%w: company %s", domain.ErrDuplicate, company.Handle)
	}
	m.byHandle[company.Handle] = company
	return company, nil
}

func (m *memoryCompanies) FindAll(_ context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	out := []domain.Company{}
	for _, c := range m.byHandle {
		if filter.NameLike != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*filter.NameLike)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryCompanies) Get(_ context.Context, handle string) (domain.CompanyDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byHandle[handle]
	if !ok {
		return domain.CompanyDetail{}, fmt.Errorf("%w: company %s", domain.ErrNotFound, handle)
	}
	return domain.CompanyDetail{Company: c, Jobs: []domain.JobSummary{}}, nil
}

func (m *memoryCompanies) Update(_ context.Context, handle string, patch domain.CompanyPatch) (domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if patch == (domain.CompanyPatch{}) {
		return domain.Company{}, domain.ErrEmptyUpdate
	}
	c, ok := m.byHandle[handle]
	if !ok {
		return domain.Company{}, fmt.Errorf("%w: company %s", domain.ErrNotFound, handle)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.NumEmployees != nil {
		c.NumEmployees = patch.NumEmployees
	}
	if patch.LogoURL != nil {
		c.LogoURL = patch.LogoURL
	}
	m.byHandle[handle] = c
	return c, nil
}

func (m *memoryCompanies) Remove(_ context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHandle[handle]; !ok {
		return fmt.Errorf("%w: company %s", domain.ErrNotFound, handle)
	}
	delete(m.byHandle, handle)
	return nil
}

type memoryJobs struct {
	mu         sync.Mutex
	nextID     int
	byID       map[int]domain.Job
	lastFilter domain.JobFilter
	companies  *memoryCompanies
}

func newMemoryJobs(companies *memoryCompanies) *memoryJobs {
	return &memoryJobs{nextID: 1, byID: map[int]domain.Job{}, companies: companies}
}

func (m *memoryJobs) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	if _, err := m.companies.Get(ctx, job.CompanyHandle); err != nil {
		return domain.Job{}, fmt.Errorf("%w: no company %s", domain.ErrBadRequest, job.CompanyHandle)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job.ID = m.nextID
	m.nextID++
	m.byID[job.ID] = job
	return job, nil
}

func (m *memoryJobs) FindAll(_ context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	out := []domain.Job{}
	for _, j := range m.byID {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryJobs) Get(ctx context.Context, id int) (domain.JobDetail, error) {
	m.mu.Lock()
	j, ok := m.byID[id]
	m.mu.Unlock()
	if !ok {
		return domain.JobDetail{}, fmt.Errorf("%w: job %d", domain.ErrNotFound, id)
	}
	company, err := m.companies.Get(ctx, j.CompanyHandle)
	if err != nil {
		return domain.JobDetail{}, err
	}
	return domain.JobDetail{
		JobSummary: domain.JobSummary{ID: j.ID, Title: j.Title, Salary: j.Salary, Equity: j.Equity},
		Company:    company.Company,
	}, nil
}

func (m *memoryJobs) Update(_ context.Context, id int, patch domain.JobPatch) (domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if patch == (domain.JobPatch{}) {
		return domain.Job{}, domain.ErrEmptyUpdate
	}
	j, ok := m.byID[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("%w: job %d", domain.ErrNotFound, id)
	}
	if patch.Title != nil {
		j.Title = *patch.Title
	}
	if patch.Salary != nil {
		j.Salary = patch.Salary
	}
	if patch.Equity != nil {
		j.Equity = patch.Equity
	}
	m.byID[id] = j
	return j, nil
}

func (m *memoryJobs) Remove(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("%w: job %d", domain.ErrNotFound, id)
	}
	delete(m.byID, id)
	return nil
}

type memoryUsers struct {
	mu        sync.Mutex
	users     map[string]domain.User
	passwords map[string]string
	applied   map[string][]int
	jobs      *memoryJobs
}

func newMemoryUsers(jobs *memoryJobs) *memoryUsers {
	return &memoryUsers{
		users:     map[string]domain.User{},
		passwords: map[string]string{},
		applied:   map[string][]int{},
		jobs:      jobs,
	}
}

func (m *memoryUsers) Register(_ context.Context, in domain.NewUser) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[in.Username]; ok {
		return domain.User{}, fmt.Errorf("%w: username %s", domain.ErrDuplicate, in.Username)
	}
	u := domain.User{Username: in.Username, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, IsAdmin: in.IsAdmin}
	m.users[in.Username] = u
	m.passwords[in.Username] = in.Password
	return u, nil
}

func (m *memoryUsers) Authenticate(_ context.Context, username, password string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok || m.passwords[username] != password {
		return domain.User{}, fmt.Errorf("%w: invalid username/password", domain.ErrUnauthorized)
	}
	return u, nil
}

func (m *memoryUsers) FindAll(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memoryUsers) Get(_ context.Context, username string) (domain.UserDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return domain.UserDetail{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	return domain.UserDetail{User: u, Jobs: append([]int{}, m.applied[username]...)}, nil
}

func (m *memoryUsers) Update(_ context.Context, username string, patch domain.UserPatch) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if patch == (domain.UserPatch{}) {
		return domain.User{}, domain.ErrEmptyUpdate
	}
	u, ok := m.users[username]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		m.passwords[username] = *patch.Password
	}
	if patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}
	m.users[username] = u
	return u, nil
}

func (m *memoryUsers) Remove(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	delete(m.users, username)
	return nil
}

func (m *memoryUsers) ApplyToJob(ctx context.Context, username string, jobID int) error {
	if _, err := m.jobs.Get(ctx, jobID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	for _, id := range m.applied[username] {
		if id == jobID {
			return fmt.Errorf("%w: already applied to job %d", domain.ErrDuplicate, jobID)
		}
	}
	m.applied[username] = append(m.applied[username], jobID)
	return nil
}

type testEnv struct {
	srv       *Server
	companies *memoryCompanies
	jobs      *memoryJobs
	users     *memoryUsers
	tokens    *token.Manager
}

// newTestEnv seeds companies c1..c3, job 1 at c1, admin "admin" and
// regular users "u1" and "u2".
func newTestEnv(t *testing.T, cfg config.Config, deps ServerDeps) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n1, n2, n3 := 1, 2, 3
	companies := newMemoryCompanies(
		domain.Company{Handle: "c1", Name: "C1", Description: "Desc1", NumEmployees: &n1},
		domain.Company{Handle: "c2", Name: "C2", Description: "Desc2", NumEmployees: &n2},
		domain.Company{Handle: "c3", Name: "C3", Description: "Desc3", NumEmployees: &n3},
	)
	jobs := newMemoryJobs(companies)
	salary := 100
	if _, err := jobs.Create(context.Background(), domain.Job{Title: "J1", Salary: &salary, CompanyHandle: "c1"}); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	users := newMemoryUsers(jobs)
	for _, u := range []domain.NewUser{
		{Username: "admin", Password: "password0", FirstName: "A", LastName: "Dmin", Email: "admin@email.com", IsAdmin: true},
		{Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "u1@email.com"},
		{Username: "u2", Password: "password2", FirstName: "U2F", LastName: "U2L", Email: "u2@email.com"},
	} {
		if _, err := users.Register(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	tokens, err := token.NewManager(token.Config{Secret: []byte(testSecret)})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	if deps.Companies == nil {
		deps.Companies = companies
	}
	if deps.Jobs == nil {
		deps.Jobs = jobs
	}
	if deps.Users == nil {
		deps.Users = users
	}
	if deps.Verifier == nil {
		deps.Verifier = tokens
	}
	if deps.Signer == nil {
		deps.Signer = tokens
	}
	return &testEnv{
		srv:       NewServerWithDeps(cfg, deps),
		companies: companies,
		jobs:      jobs,
		users:     users,
		tokens:    tokens,
	}
}

func (e *testEnv) tokenFor(t *testing.T, username string, isAdmin bool) string {
	t.Helper()
	tok, err := e.tokens.Sign(domain.Identity{Username: username, IsAdmin: isAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	errBody, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error body, got %v", body)
	}
	code, _ := errBody["code"].(string)
	return code
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
