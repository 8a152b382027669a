package server

import (
	_ "embed"
	"net/http"
)

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title SEO Lens API
// @version 1.0
// @description Interactive documentation for the SEO analysis API surface.
// @BasePath /

//go:embed docs/swagger.json
var swaggerDoc []byte

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(swaggerDoc)
}
