package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/logging"
	"github.com/agentstation/wishlist/pkg/storage"
	"github.com/agentstation/wishlist/pkg/storage/memory"
)

func newTestApp(t *testing.T, opts ...Option) (*App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WISHLIST_LOG_LEVEL", "error")
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })
	var out bytes.Buffer
	app, err := New("1.0.0", "abc123", "2025-01-01", "test", append([]Option{WithOutput(&out)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app, &out
}

func TestNew(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2025-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())
}

func TestWishlistIsSingleton(t *testing.T) {
	app, _ := newTestApp(t, WithStorage(memory.New()))

	const goroutines = 20
	var wg sync.WaitGroup
	results := make(chan any, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := app.Wishlist()
			assert.NoError(t, err)
			results <- s
		}()
	}
	wg.Wait()
	close(results)

	first := <-results
	for s := range results {
		assert.Same(t, first, s)
	}
}

func TestWishlistLoadsSavedItems(t *testing.T) {
	mem := memory.New(memory.WithData(map[string]string{
		storage.DefaultKey: `[{"id":"p1","name":"Gown","type":"بيع"}]`,
	}))
	app, _ := newTestApp(t, WithStorage(mem))

	store, err := app.Wishlist()
	require.NoError(t, err)
	assert.True(t, store.Contains("p1"))
}

func TestWishlistStorageFailure(t *testing.T) {
	app, _ := newTestApp(t)
	app.storageFactory = func(*Config) (storage.Storage, io.Closer, error) {
		return nil, nil, errors.NewIOError("open", "/nope", errors.ErrStorageUnavailable)
	}

	_, err := app.Wishlist()
	assert.Error(t, err)
	assert.True(t, errors.IsStorageUnavailable(err))
}

func TestCatalogLoadsEmbeddedSeed(t *testing.T) {
	app, _ := newTestApp(t)
	app.config.CatalogPath = ""

	cat, err := app.Catalog()
	require.NoError(t, err)
	assert.Positive(t, cat.Len())

	again, err := app.Catalog()
	require.NoError(t, err)
	assert.Same(t, cat, again)
}

func TestShutdownIsIdempotent(t *testing.T) {
	app, _ := newTestApp(t, WithStorage(memory.New()))
	_, err := app.Wishlist()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, app.Shutdown(ctx))
	assert.NoError(t, app.Shutdown(ctx))
}

func TestExecuteCommands(t *testing.T) {
	mem := memory.New()
	app, out := newTestApp(t, WithStorage(mem))
	ctx := context.Background()

	require.NoError(t, app.Execute(ctx, []string{"add", "anaqa-prod1", "lamsa-serv1"}))
	assert.Contains(t, out.String(), "Added anaqa-prod1")
	assert.Contains(t, out.String(), "Added lamsa-serv1")

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"list", "-o", "json"}))
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "anaqa-prod1", listed[0]["id"])

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"ls", "--kind", "service", "-o", "json"}))
	require.NoError(t, json.Unmarshal(out.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "lamsa-serv1", listed[0]["id"])

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"rm", "anaqa-prod1", "missing"}))
	assert.Contains(t, out.String(), "Removed anaqa-prod1")
	assert.NotContains(t, out.String(), "missing")

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"clear"}))
	assert.Contains(t, out.String(), "Cleared 1 item(s)")

	value, ok, err := mem.Get(ctx, storage.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, value)
}

func TestExecuteAddUnknownChangesNothing(t *testing.T) {
	mem := memory.New()
	app, _ := newTestApp(t, WithStorage(mem))

	err := app.Execute(context.Background(), []string{"add", "anaqa-prod1", "nope"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Zero(t, mem.Writes())
}

func TestExecuteCatalog(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.Execute(context.Background(), []string{"catalog", "--kind", "service", "-o", "json"}))
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &listed))
	require.NotEmpty(t, listed)

	err := app.Execute(context.Background(), []string{"catalog", "--kind", "gadget"})
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteRejectsBadFlags(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Error(t, app.Execute(context.Background(), []string{"list", "-o", "xml"}))
	assert.Error(t, app.Execute(context.Background(), []string{"list", "--storage", "redis"}))
}

func TestExecuteVersion(t *testing.T) {
	app, out := newTestApp(t)
	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.Equal(t, "wishlist 1.0.0\n", out.String())
}

func TestExecuteInstallsDefaultLogger(t *testing.T) {
	app, _ := newTestApp(t)
	require.NoError(t, app.Execute(context.Background(), []string{"version", "--log-level", "debug"}))
	assert.Equal(t, zerolog.DebugLevel, logging.Default().GetLevel())
}

func TestServerConfig(t *testing.T) {
	app, _ := newTestApp(t)
	app.config.ServerHost = "0.0.0.0"
	app.config.ServerPort = 9090

	cfg := app.ServerConfig()
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.PathPrefix)
}
