//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests for NOSENIX using real Postgres + Redis via
// testcontainers. Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - full sale cycle (login → create produit/client → vente → list)
//   - atomic oversell rejection: 409 with disponible, ledger and stock intact
//   - dashboard report on a populated ledger; 204 on an empty one
//   - CSV exports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Nokho11/gestion-vente/internal/config"
	"github.com/Nokho11/gestion-vente/internal/infra"
	"github.com/Nokho11/gestion-vente/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

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

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("nosenix_test"),
		tcPostgres.WithUsername("nosenix"),
		tcPostgres.WithPassword("nosenix"),
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
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("nosenix2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO utilisateurs (username, nom, password_hash, role, actif)
		VALUES ('admin@e2e.test', 'Admin E2E', ?, 'admin', true)
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, smtpCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "nosenix2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) creerProduit(t *testing.T, nom string, prix float64, stock int) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/produits",
		jsonBody(t, map[string]any{"nom": nom, "prix_vente": prix, "stock": stock}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func (env *testEnv) creerClient(t *testing.T, nom string) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/clients",
		jsonBody(t, map[string]any{"nom": nom}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CycleVenteComplet(t *testing.T) {
	env := setupTestEnv(t)

	env.creerProduit(t, "Produit 1", 1000, 50)
	env.creerClient(t, "Client A")

	// Duplicate product name is rejected
	dupResp := do(t, env.server, "POST", "/v1/produits",
		jsonBody(t, map[string]any{"nom": "Produit 1", "prix_vente": 2000.0}),
		env.token,
	)
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)
	dupResp.Body.Close()

	// Register a sale
	venteResp := do(t, env.server, "POST", "/v1/ventes",
		jsonBody(t, map[string]any{"client": "Client A", "produit": "Produit 1", "quantite": 10}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, venteResp.StatusCode)
	var venteBody struct {
		NumeroTicket int    `json:"numero_ticket"`
		Total        string `json:"total"`
	}
	decodeJSON(t, venteResp, &venteBody)
	assert.Equal(t, 1, venteBody.NumeroTicket)
	total := decimal.RequireFromString(venteBody.Total)
	assert.True(t, total.Equal(decimal.NewFromInt(10000)), "total = %s", venteBody.Total)

	// Stock decremented in the same transaction
	prodResp := do(t, env.server, "GET", "/v1/produits/"+url.PathEscape("Produit 1"), nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prodBody struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prodBody)
	assert.Equal(t, 40, prodBody.Stock)

	// Ledger lists the sale
	listResp := do(t, env.server, "GET", "/v1/ventes", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var listBody struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &listBody)
	assert.Equal(t, int64(1), listBody.Total)
}

func TestE2E_SurventeAtomique(t *testing.T) {
	env := setupTestEnv(t)

	env.creerProduit(t, "Produit 3", 2000, 20)
	env.creerClient(t, "Client C")

	// Ask for more than available: full rejection, nothing partial
	resp := do(t, env.server, "POST", "/v1/ventes",
		jsonBody(t, map[string]any{"client": "Client C", "produit": "Produit 3", "quantite": 25}),
		env.token,
	)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody struct {
		Detail     string `json:"detail"`
		Disponible int    `json:"disponible"`
	}
	decodeJSON(t, resp, &errBody)
	assert.Equal(t, 20, errBody.Disponible)

	// Stock untouched
	prodResp := do(t, env.server, "GET", "/v1/produits/"+url.PathEscape("Produit 3"), nil, env.token)
	var prodBody struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prodBody)
	assert.Equal(t, 20, prodBody.Stock)

	// Ledger untouched — the vente row rolled back with the failed decrement
	listResp := do(t, env.server, "GET", "/v1/ventes", nil, env.token)
	var listBody struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &listBody)
	assert.Equal(t, int64(0), listBody.Total)
}

func TestE2E_RapportEtExport(t *testing.T) {
	env := setupTestEnv(t)

	// Empty ledger answers 204
	emptyResp := do(t, env.server, "GET", "/v1/rapports/tableau-de-bord", nil, env.token)
	assert.Equal(t, http.StatusNoContent, emptyResp.StatusCode)
	emptyResp.Body.Close()

	env.creerProduit(t, "Produit 1", 1000, 50)
	env.creerProduit(t, "Produit 2", 1500, 30)
	env.creerClient(t, "Client A")
	env.creerClient(t, "Client B")

	for _, v := range []map[string]any{
		{"client": "Client A", "produit": "Produit 1", "quantite": 5},
		{"client": "Client B", "produit": "Produit 2", "quantite": 8},
	} {
		resp := do(t, env.server, "POST", "/v1/ventes", jsonBody(t, v), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	rapportResp := do(t, env.server, "GET", "/v1/rapports/tableau-de-bord", nil, env.token)
	require.Equal(t, http.StatusOK, rapportResp.StatusCode)
	var rapport struct {
		ChiffreAffaires string `json:"chiffre_affaires"`
		NombreVentes    int    `json:"nombre_ventes"`
		TopProduit      string `json:"top_produit"`
		TopClient       string `json:"top_client"`
	}
	decodeJSON(t, rapportResp, &rapport)
	ca := decimal.RequireFromString(rapport.ChiffreAffaires)
	assert.True(t, ca.Equal(decimal.NewFromInt(17000)), "chiffre_affaires = %s", rapport.ChiffreAffaires)
	assert.Equal(t, 2, rapport.NombreVentes)
	assert.Equal(t, "Produit 2", rapport.TopProduit)
	assert.Equal(t, "Client B", rapport.TopClient)

	// CSV export carries the ledger
	exportResp := do(t, env.server, "GET", "/v1/export/ventes", nil, env.token)
	require.Equal(t, http.StatusOK, exportResp.StatusCode)
	assert.Contains(t, exportResp.Header.Get("Content-Type"), "text/csv")
	exportResp.Body.Close()
}

func TestE2E_AjustementStockEtAlertes(t *testing.T) {
	env := setupTestEnv(t)

	env.creerProduit(t, "Produit 2", 1500, 30)

	// Fetch the produit id
	prodResp := do(t, env.server, "GET", "/v1/produits/"+url.PathEscape("Produit 2"), nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)

	// Downward adjustment below zero is refused
	badResp := do(t, env.server, "POST", "/v1/produits/"+prod.ID+"/stock",
		jsonBody(t, map[string]any{"delta": -45, "motif": "Inventaire"}),
		env.token,
	)
	assert.Equal(t, http.StatusConflict, badResp.StatusCode)
	badResp.Body.Close()

	// Valid adjustment down to the alert threshold
	okResp := do(t, env.server, "POST", "/v1/produits/"+prod.ID+"/stock",
		jsonBody(t, map[string]any{"delta": -27, "motif": "Inventaire"}),
		env.token,
	)
	require.Equal(t, http.StatusOK, okResp.StatusCode)
	var adjusted struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, okResp, &adjusted)
	assert.Equal(t, 3, adjusted.Stock)

	// Product now appears in the low-stock alerts
	alertResp := do(t, env.server, "GET", "/v1/stock/alertes", nil, env.token)
	require.Equal(t, http.StatusOK, alertResp.StatusCode)
	var alertes []struct {
		Nom   string `json:"nom"`
		Stock int    `json:"stock"`
	}
	decodeJSON(t, alertResp, &alertes)
	require.Len(t, alertes, 1)
	assert.Equal(t, "Produit 2", alertes[0].Nom)
}
