//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Flows covered:
//   - metal catalog seed + create + list
//   - safe purchase with weighted average cost
//   - company deposit (dual update) + balances
//   - casting completion consumption with safe deficit draw
//   - ledger listing and statement download
//   - role enforcement on writes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/armencho53/JMSK-Backend/internal/config"
	"github.com/armencho53/JMSK-Backend/internal/infra"
	"github.com/armencho53/JMSK-Backend/internal/middleware"
	"github.com/armencho53/JMSK-Backend/internal/router"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

const testSecret = "e2e-test-secret"

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// signToken builds a token the way the platform auth service would.
func signToken(t *testing.T, tenantID, userID uuid.UUID, role string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   userID.String(),
		TenantID: tenantID.String(),
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server   *httptest.Server
	db       *gorm.DB
	tenantID uuid.UUID
	admin    string // admin JWT
	viewer   string // viewer JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("jmsk_test"),
		tcPostgres.WithUsername("jmsk"),
		tcPostgres.WithPassword("jmsk"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		JWTSecret:            testSecret,
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		WorkerPoolSize:       1,
		MetalCacheTTLSeconds: 30,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, nil)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	tenantID := uuid.New()
	adminID := uuid.New()
	viewerID := uuid.New()

	return &testEnv{
		server:   srv,
		db:       db,
		tenantID: tenantID,
		admin:    signToken(t, tenantID, adminID, "admin"),
		viewer:   signToken(t, tenantID, viewerID, "viewer"),
	}
}

func (e *testEnv) insertCompany(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := e.db.Exec(`INSERT INTO companies (id, tenant_id, name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, true, NOW(), NOW())`, id, e.tenantID, name).Error
	require.NoError(t, err)
	return id
}

func (e *testEnv) insertOrder(t *testing.T, companyID uuid.UUID, metalCode string, quantity int, targetWeight float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := e.db.Exec(`INSERT INTO orders (id, tenant_id, company_id, order_number, metal_code, quantity, target_weight_per_piece, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		id, e.tenantID, companyID, "ORD-E2E-1", metalCode, quantity, targetWeight).Error
	require.NoError(t, err)
	return id
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_MetalCatalog(t *testing.T) {
	env := setupTestEnv(t)

	// Seed the default catalog (admin only).
	resp := do(t, env.server, "POST", "/v1/metals/seed", nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Seeding is idempotent.
	resp = do(t, env.server, "POST", "/v1/metals/seed", nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/metals", nil, env.viewer)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var metals []struct {
		Code           string  `json:"code"`
		FinePercentage float64 `json:"fine_percentage"`
	}
	decodeJSON(t, listResp, &metals)
	assert.Len(t, metals, 6)

	// Viewers cannot create metals.
	createResp := do(t, env.server, "POST", "/v1/metals",
		jsonBody(t, map[string]any{"code": "GOLD_9K", "name": "Gold 9K", "fine_percentage": 0.375}),
		env.viewer,
	)
	require.Equal(t, http.StatusForbidden, createResp.StatusCode)
	createResp.Body.Close()

	// Admins can.
	createResp = do(t, env.server, "POST", "/v1/metals",
		jsonBody(t, map[string]any{"code": "GOLD_9K", "name": "Gold 9K", "fine_percentage": 0.375}),
		env.admin,
	)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	createResp.Body.Close()

	// Duplicate code within the tenant conflicts.
	dupResp := do(t, env.server, "POST", "/v1/metals",
		jsonBody(t, map[string]any{"code": "GOLD_9K", "name": "Gold 9K again", "fine_percentage": 0.375}),
		env.admin,
	)
	require.Equal(t, http.StatusConflict, dupResp.StatusCode)
	dupResp.Body.Close()
}

func TestE2E_DepositConsumptionFlow(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/metals/seed", nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/metals", nil, env.admin)
	var metals []struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	decodeJSON(t, listResp, &metals)
	var gold14k string
	for _, m := range metals {
		if m.Code == "GOLD_14K" {
			gold14k = m.ID
		}
	}
	require.NotEmpty(t, gold14k)

	companyID := env.insertCompany(t, "Aurum Jewelers")
	orderID := env.insertOrder(t, companyID, "GOLD_14K", 2, 5.0)

	// Purchase fine metal into the safe: average cost set outright.
	purchResp := do(t, env.server, "POST", "/v1/safe/purchases",
		jsonBody(t, map[string]any{
			"metal_id":       gold14k,
			"supply_type":    "FINE_METAL",
			"quantity_grams": 10.0,
			"cost_per_gram":  "42.50",
		}),
		env.admin,
	)
	require.Equal(t, http.StatusCreated, purchResp.StatusCode)
	purchResp.Body.Close()

	// Company deposits 2g of fine metal.
	depResp := do(t, env.server, "POST", "/v1/companies/"+companyID.String()+"/metal-deposits",
		jsonBody(t, map[string]any{"metal_id": gold14k, "quantity_grams": 2.0}),
		env.admin,
	)
	require.Equal(t, http.StatusCreated, depResp.StatusCode)
	depResp.Body.Close()

	// Casting completes: 10g total → 5.85g fine + 4.15g alloy.
	castResp := do(t, env.server, "POST", "/v1/manufacturing/casting-completions",
		jsonBody(t, map[string]any{"order_id": orderID.String()}),
		env.admin,
	)
	require.Equal(t, http.StatusOK, castResp.StatusCode)
	var cast struct {
		Skipped             bool    `json:"skipped"`
		FineMetalGrams      float64 `json:"fine_metal_grams"`
		AlloyGrams          float64 `json:"alloy_grams"`
		CompanyBalanceAfter float64 `json:"company_balance_after"`
		SafeFineMetalAfter  float64 `json:"safe_fine_metal_after"`
		SafeAlloyAfter      float64 `json:"safe_alloy_after"`
	}
	decodeJSON(t, castResp, &cast)
	assert.False(t, cast.Skipped)
	assert.InDelta(t, 5.85, cast.FineMetalGrams, 1e-6)
	assert.InDelta(t, 4.15, cast.AlloyGrams, 1e-6)
	// Balance 2 → −3.85; safe had 10+2=12, minus the 3.85 shortfall.
	assert.InDelta(t, -3.85, cast.CompanyBalanceAfter, 1e-6)
	assert.InDelta(t, 12.0-3.85, cast.SafeFineMetalAfter, 1e-6)
	// No alloy was ever purchased: the pool goes negative.
	assert.InDelta(t, -4.15, cast.SafeAlloyAfter, 1e-6)

	// Ledger: purchase + deposit + two consumption rows.
	txResp := do(t, env.server, "GET", "/v1/metal-transactions", nil, env.viewer)
	require.Equal(t, http.StatusOK, txResp.StatusCode)
	var txns []struct {
		TransactionType string  `json:"transaction_type"`
		QuantityGrams   float64 `json:"quantity_grams"`
	}
	decodeJSON(t, txResp, &txns)
	assert.Len(t, txns, 4)

	// Statement PDF downloads.
	stResp := do(t, env.server, "GET", "/v1/companies/"+companyID.String()+"/metal-statement", nil, env.viewer)
	require.Equal(t, http.StatusOK, stResp.StatusCode)
	assert.Equal(t, "application/pdf", stResp.Header.Get("Content-Type"))
	stResp.Body.Close()
}

func TestE2E_CastingSoftSkip(t *testing.T) {
	env := setupTestEnv(t)

	companyID := env.insertCompany(t, "Aurum Jewelers")
	id := uuid.New()
	err := env.db.Exec(`INSERT INTO orders (id, tenant_id, company_id, order_number, quantity, target_weight_per_piece, created_at, updated_at)
		VALUES (?, ?, ?, 'ORD-NO-METAL', 2, 5.0, NOW(), NOW())`, id, env.tenantID, companyID).Error
	require.NoError(t, err)

	castResp := do(t, env.server, "POST", "/v1/manufacturing/casting-completions",
		jsonBody(t, map[string]any{"order_id": id.String()}),
		env.admin,
	)
	require.Equal(t, http.StatusOK, castResp.StatusCode)
	var cast struct {
		Skipped bool `json:"skipped"`
	}
	decodeJSON(t, castResp, &cast)
	assert.True(t, cast.Skipped)

	txResp := do(t, env.server, "GET", "/v1/metal-transactions", nil, env.viewer)
	var txns []struct {
		ID string `json:"id"`
	}
	decodeJSON(t, txResp, &txns)
	assert.Empty(t, txns)
}

func TestE2E_AlloyPoolSingleRow(t *testing.T) {
	env := setupTestEnv(t)

	// The generic alloy pool has metal_id NULL, which the composite unique
	// index does not constrain; the partial index must reject a second row.
	err := env.db.Exec(`INSERT INTO safe_supplies (id, tenant_id, supply_type, quantity_grams, created_at, updated_at)
		VALUES (?, ?, 'ALLOY', 0, NOW(), NOW())`, uuid.New(), env.tenantID).Error
	require.NoError(t, err)

	err = env.db.Exec(`INSERT INTO safe_supplies (id, tenant_id, supply_type, quantity_grams, created_at, updated_at)
		VALUES (?, ?, 'ALLOY', 0, NOW(), NOW())`, uuid.New(), env.tenantID).Error
	require.Error(t, err)

	// Purchases into the pre-existing pool keep accumulating on that row.
	resp := do(t, env.server, "POST", "/v1/safe/purchases",
		jsonBody(t, map[string]any{"supply_type": "ALLOY", "quantity_grams": 100.0, "cost_per_gram": "0.5"}),
		env.admin,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var count int64
	require.NoError(t, env.db.Raw(`SELECT COUNT(*) FROM safe_supplies WHERE tenant_id = ? AND supply_type = 'ALLOY' AND metal_id IS NULL`, env.tenantID).Scan(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestE2E_AuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/metals", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Health is public.
	resp = do(t, env.server, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
