package container

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/marquee/pkg/config"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

func testConfig(t *testing.T) *config.MarqueeConfig {
	t.Helper()

	cfg := config.GetDefaults()
	cfg.Catalog.APIKey = "test-key"
	cfg.Store.DataDir = t.TempDir()
	return cfg
}

func newLogger(t *testing.T) *logger.ZapLogger {
	t.Helper()

	cfg := logger.DefaultConfig()
	cfg.Level = "error"
	log, err := cfg.Build()
	require.NoError(t, err)
	return log
}

func TestInitializeApp_FileBackend(t *testing.T) {
	app, cleanup, err := InitializeApp(context.Background(), testConfig(t), newLogger(t))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, Forwarding(config.ForwarderNone), app.Forwards)

	body := `{"title":"Heat","image":"https://img.example/heat.jpg","rating":8,"genre":"Crime","releaseDate":"1995-12-15","overview":"Bank robbers and the detective who hunts them."}`
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/own-movies", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/own-movies", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var movies []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Heat", movies[0]["title"])

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitializeApp_DatabaseBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = config.StoreBackendDatabase
	cfg.Database.DSN = "file::memory:?cache=shared"
	cfg.Database.ConnectAttempts = 1

	app, cleanup, err := InitializeApp(context.Background(), cfg, newLogger(t))
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/own-movies", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestInitializeApp_RejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "tape"

	_, _, err := InitializeApp(context.Background(), cfg, newLogger(t))
	assert.Error(t, err)
}

func TestInitializeApp_RejectsUnknownForwarder(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events.Forwarder = "carrier-pigeon"

	_, _, err := InitializeApp(context.Background(), cfg, newLogger(t))
	assert.Error(t, err)
}
