package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/config"
	"github.com/dmitrijs2005/penguindb/internal/dbx"
	"github.com/dmitrijs2005/penguindb/internal/logging"
	"github.com/dmitrijs2005/penguindb/internal/metrics"
	"github.com/dmitrijs2005/penguindb/internal/models"
	"github.com/dmitrijs2005/penguindb/internal/ratelimit"
	penguinsrepo "github.com/dmitrijs2005/penguindb/internal/repositories/penguins"
	usersrepo "github.com/dmitrijs2005/penguindb/internal/repositories/users"
	"github.com/dmitrijs2005/penguindb/internal/services"
)

// In-memory repositories back the handler tests so requests flow through the
// real services, validation and auth stack.

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User)}
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	username := strings.TrimSpace(u.Username)
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range m.users {
		if existing.Email == email {
			return nil, common.ErrorEmailTaken
		}
		if existing.Username == username {
			return nil, common.ErrorUsernameTaken
		}
	}

	now := time.Now()
	stored := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[stored.ID] = stored
	c := *stored
	return &c, nil
}

func (m *memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) UpdateUsername(ctx context.Context, id, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	u.Username = strings.TrimSpace(username)
	u.UpdatedAt = time.Now()
	return 1, nil
}

func (m *memUsers) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type memPenguins struct {
	mu       sync.Mutex
	penguins map[string]*models.Penguin
	seq      int
}

func newMemPenguins() *memPenguins {
	return &memPenguins{penguins: make(map[string]*models.Penguin)}
}

func (m *memPenguins) Create(ctx context.Context, p *models.Penguin) (*models.Penguin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	now := time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	stored := *p
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.penguins[stored.ID] = &stored
	c := stored
	return &c, nil
}

func (m *memPenguins) FindByID(ctx context.Context, id string) (*models.Penguin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.penguins[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (m *memPenguins) sortedLocked(filter func(*models.Penguin) bool) []*models.Penguin {
	result := []*models.Penguin{}
	for _, p := range m.penguins {
		if filter(p) {
			c := *p
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func ownerMatches(p *models.Penguin, ownerID string) bool {
	if ownerID == "" {
		return true
	}
	return p.UserID != nil && *p.UserID == ownerID
}

func (m *memPenguins) FindAll(ctx context.Context, ownerID string) ([]*models.Penguin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked(func(p *models.Penguin) bool { return ownerMatches(p, ownerID) }), nil
}

func (m *memPenguins) UpdateByID(ctx context.Context, id string, p *models.Penguin) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.penguins[id]
	if !ok {
		return 0, nil
	}
	existing.Name = p.Name
	existing.Species = p.Species
	existing.Age = p.Age
	existing.Location = p.Location
	existing.Weight = p.Weight
	existing.Height = p.Height
	existing.UpdatedAt = time.Now()
	return 1, nil
}

func (m *memPenguins) DeleteByID(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.penguins[id]; !ok {
		return 0, nil
	}
	delete(m.penguins, id)
	return 1, nil
}

func (m *memPenguins) Search(ctx context.Context, term, ownerID string) ([]*models.Penguin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	term = strings.ToLower(term)
	return m.sortedLocked(func(p *models.Penguin) bool {
		if !ownerMatches(p, ownerID) {
			return false
		}
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Species), term)
	}), nil
}

func (m *memPenguins) GetStats(ctx context.Context, ownerID string) (*models.PenguinStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matching := m.sortedLocked(func(p *models.Penguin) bool { return ownerMatches(p, ownerID) })
	stats := &models.PenguinStats{TotalPenguins: int64(len(matching)), LatestPenguin: "None"}
	if len(matching) > 0 {
		stats.LatestPenguin = matching[0].Name
	}
	return stats, nil
}

func (m *memPenguins) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.penguins {
		if p.UserID != nil && *p.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

type memRepoManager struct {
	users    *memUsers
	penguins *memPenguins
}

func (m *memRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository              { return m.users }
func (m *memRepoManager) Penguins(db dbx.DBTX) penguinsrepo.Repository        { return m.penguins }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type testEnv struct {
	ts       *httptest.Server
	tiers    *ratelimit.Tiers
	tracker  *metrics.Tracker
	users    *memUsers
	penguins *memPenguins
}

// newTestEnv builds a full server over in-memory repositories. The sqlmock
// handle only serves transaction begin/commit/rollback around update and
// delete; expectations are pre-registered unordered so tests do not have to
// script each one.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 50; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		Environment:           "development",
	}

	rm := &memRepoManager{users: newMemUsers(), penguins: newMemPenguins()}
	tiers := ratelimit.NewTiers()
	tracker := metrics.NewTracker()

	us := services.NewUserService(db, rm, cfg, nopLogger{})
	ps := services.NewPenguinService(db, rm)
	srv := NewServer(us, ps, db, cfg, nopLogger{}, tiers, tracker)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, tiers: tiers, tracker: tracker, users: rm.users, penguins: rm.penguins}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

// register creates a user through the API and returns the issued token.
func (e *testEnv) register(t *testing.T, username, email string) string {
	t.Helper()

	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, resp.StatusCode, body)
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}
	if envelope.Data.Token == "" {
		t.Fatal("register returned empty token")
	}
	return envelope.Data.Token
}

// createPenguin creates a record through the API and returns its id.
func (e *testEnv) createPenguin(t *testing.T, token, name, species string) string {
	t.Helper()

	resp, body := e.do(t, http.MethodPost, "/api/penguins", token, map[string]string{
		"name":    name,
		"species": species,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create penguin: status %d, body %s", resp.StatusCode, body)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}
	return out.ID
}

func decodeEnvelope(t *testing.T, body []byte) Response {
	t.Helper()
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %s)", err, body)
	}
	return r
}
