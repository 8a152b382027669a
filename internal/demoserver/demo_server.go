package demoserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DemoServer serves pages with known SEO problems for manual testing of the
// analyzer against predictable inputs.
type DemoServer struct {
	cfg   Config
	pages map[string]PageDefinition
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	pageMap := make(map[string]PageDefinition)
	for _, p := range GetAllPages() {
		pageMap[p.Path] = p
	}

	return &DemoServer{
		cfg:   cfg,
		pages: pageMap,
	}
}

// Handler returns the demo server's mux so tests can mount it in httptest.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	for path := range s.pages {
		p := path // capture for closure
		mux.HandleFunc(p, s.pageHandler(p))
	}

	mux.HandleFunc("/demo/pages", s.listPagesHandler)
	mux.HandleFunc("/static/", s.staticHandler)

	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	fmt.Printf("Page catalogue at http://localhost%s/demo/pages\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *DemoServer) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := s.pages[path]
		if !ok || (path == "/" && r.URL.Path != "/") {
			http.NotFound(w, r)
			return
		}

		if page.SlowMs > 0 {
			time.Sleep(time.Duration(page.SlowMs) * time.Millisecond)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page.HTML))
	}
}

func (s *DemoServer) listPagesHandler(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Path        string `json:"path"`
		Description string `json:"description"`
	}
	var out []entry
	for _, p := range GetAllPages() {
		out = append(out, entry{Path: p.Path, Description: p.Description})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *DemoServer) staticHandler(w http.ResponseWriter, r *http.Request) {
	// One pixel GIF keeps image references resolvable.
	w.Header().Set("Content-Type", "image/gif")
	_, _ = w.Write([]byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;"))
}
