package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/domain"
)

func TestStaticDefaultImages(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{domain.DefaultImageURL, domain.DefaultHeaderImageURL} {
		rec := app.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"), path)
	}

	rec := app.do(t, http.MethodGet, "/static/images/missing.png", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewHandler_DefaultMetrics(t *testing.T) {
	app := newTestApp(t, func(d *Deps) {
		d.Metrics = nil
		d.Gatherer = nil
	})

	rec := app.do(t, http.MethodPost, "/messages/new", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `warbler_unauthorized_total{route="/messages/new"} 1`)
}
