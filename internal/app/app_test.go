package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/visual-catalog/config"
)

func catalogAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /options", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"options":[{"id":1,"title":"Acme","active":1}]}`))
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"count":1,"products":[
			{"id":7,"title":"Claw Hammer","brand":"Acme","sku":"CH-1","category":"Tools",
			 "types":[{"title":"Hand tool"}],"active":1,"discontinued":0,"piece":1,
			 "dateAddedFull":"March 3, 2021","image":{"url":"https://img.example/7.png"},
			 "editUrl":"https://admin.example/7"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string) config.Config {
	t.Helper()

	var cfg config.Config
	cfg.LogLevel = slog.LevelDebug
	cfg.LogFile = filepath.Join(t.TempDir(), "catalog.log")
	cfg.HTTPServerAddr = "127.0.0.1:0"
	cfg.API.ProductsURL = apiURL + "/products"
	cfg.API.OptionsURL = apiURL + "/options"
	cfg.Filters = []config.Filter{{Field: "brand", Title: "Brand"}}
	return cfg
}

func keepDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestNewWithoutTelemetry(t *testing.T) {
	keepDefaultLogger(t)
	srv := catalogAPI(t)
	cfg := testConfig(t, srv.URL)

	a := New(t.Context(), cfg)
	defer a.Close(t.Context())

	assert.Nil(t, a.outbound.interactions)
	require.NotNil(t, a.service.recorder)

	require.NoError(t, a.service.board.Load(t.Context()))
	require.NoError(t, a.service.catalog.Mount(t.Context()))

	state := a.service.catalog.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Claw Hammer", state.Items[0].Title)
	assert.True(t, state.Finished)

	controls := a.service.board.Controls()
	require.Len(t, controls, 1)
	require.Len(t, controls[0].Options, 1)
	assert.Equal(t, "Acme", controls[0].Options[0].Label())

	info, err := os.Stat(cfg.LogFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size(), "logs go to the log file")
}

func hangingAPI(t *testing.T) *httptest.Server {
	t.Helper()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv
}

func TestRunHTTPDoesNotWaitForMount(t *testing.T) {
	keepDefaultLogger(t)
	srv := hangingAPI(t)

	a := New(t.Context(), testConfig(t, srv.URL))
	defer a.Close(t.Context())

	_, stop := context.WithCancel(t.Context())
	defer stop()

	done := make(chan struct{})
	go func() {
		a.RunHTTP(stop)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunHTTP blocked on the catalog API")
	}
	require.NotNil(t, a.httpServer)
	assert.True(t, a.service.catalog.State().Loading)
}

func TestMountGivesUpOnDeadline(t *testing.T) {
	keepDefaultLogger(t)
	srv := hangingAPI(t)

	a := New(t.Context(), testConfig(t, srv.URL))
	defer a.Close(t.Context())

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		a.mount(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("mount did not give up")
	}

	state := a.service.catalog.State()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Items)
}

func TestNewPanicsOnInvalidAPI(t *testing.T) {
	keepDefaultLogger(t)
	cfg := testConfig(t, "")
	cfg.API.ProductsURL = "/products"

	assert.Panics(t, func() { New(t.Context(), cfg) })
}

func TestTelemetryTLSDisabled(t *testing.T) {
	tlsCfg, err := telemetryTLS(config.Config{})
	require.NoError(t, err)
	assert.Nil(t, tlsCfg)
}
