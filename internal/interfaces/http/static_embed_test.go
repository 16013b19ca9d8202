package http

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStaticFiles(t *testing.T) {
	for _, name := range []string{
		"static/css/style.css",
		"static/js/charts.js",
		"static/js/websocket.js",
		"static/js/app.js",
	} {
		t.Run(name, func(t *testing.T) {
			data, err := fs.ReadFile(staticFiles, name)
			require.NoError(t, err, "expected embedded asset")
			assert.NotEmpty(t, data)
		})
	}
}

func TestEmbeddedChartRegistry(t *testing.T) {
	data, err := fs.ReadFile(staticFiles, "static/js/charts.js")
	require.NoError(t, err)
	assert.Contains(t, string(data), "ChartRegistry")
}
