package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/wardwatch/wardwatch/internal/utils"
	"github.com/wardwatch/wardwatch/pkg/polling"
)

//go:embed web
var WebFS embed.FS

// DefaultSource is served when a request does not name one.
const DefaultSource = "aftercount"

// Server exposes the last-good aggregates over HTTP. It only ever reads
// the polling cells; all computation happens in the poll loop.
type Server struct {
	Cells    map[string]*polling.Cell
	Username string
	Password string
}

func New(cells map[string]*polling.Cell, user, pass string) *Server {
	return &Server{
		Cells:    cells,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/tiles", s.basicAuth(s.handleTiles))
	mux.HandleFunc("GET /api/timeline", s.basicAuth(s.handleTimeline))
	mux.HandleFunc("GET /api/top", s.basicAuth(s.handleTop))
	mux.HandleFunc("GET /api/ward", s.basicAuth(s.handleWard))
	mux.HandleFunc("GET /api/status", s.basicAuth(s.handleStatus))

	// Static Files
	webRoot, err := fs.Sub(WebFS, "web")
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(webRoot))
	mux.Handle("/", s.basicAuthMiddlewareForStatic(fileServer))

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) basicAuthMiddlewareForStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
