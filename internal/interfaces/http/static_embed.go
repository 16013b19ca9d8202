package http

import "embed"

// staticFiles holds the dashboard stylesheet and the chart, websocket and page scripts.
//
//go:embed static
var staticFiles embed.FS
