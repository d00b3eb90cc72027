package swagger

import (
	"context"
	"net/http"

	"github.com/wptable/rankmatrix/internal/adapters/http/api"
)

const docsCacheControl = "public, max-age=3600"

// Register attaches the API docs routes to mux.
// Routes:
//
//	GET /api-docs      -> ReDoc page
//	GET /openapi.yaml  -> embedded OpenAPI document
//
// Both answer 304 to a matching If-None-Match.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /api-docs", static("text/html; charset=utf-8", []byte(indexHTML)))
	mux.HandleFunc("GET /openapi.yaml", static("application/yaml; charset=utf-8", OpenAPI))
}

// static serves a fixed body whose ETag is computed once.
func static(contentType string, body []byte) http.HandlerFunc {
	etag := api.ETag(body)
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("ETag", etag)
		h.Set("Cache-Control", docsCacheControl)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		h.Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>rankmatrix API</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container" spec-url="/openapi.yaml"></redoc>
    <script src="` + redocScriptURL + `"></script>
  </body>
</html>`
