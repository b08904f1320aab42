// Package httpapi is the routing layer: it extracts tokens and request
// bodies, dispatches to the services and translates their errors to HTTP
// statuses. No business rule lives here.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

// UserService is the account/session surface consumed by the handlers.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// FileService is the file entity manager surface consumed by the handlers.
type FileService interface {
	Create(ctx context.Context, ownerID models.ID, req services.CreateRequest) (*models.File, error)
	Get(ctx context.Context, ownerID, id models.ID) (*models.File, error)
	List(ctx context.Context, ownerID, parentID models.ID, page int) ([]*models.File, error)
	SetPublic(ctx context.Context, ownerID, id models.ID, value bool) (*models.File, error)
	GetContent(ctx context.Context, viewer *models.User, id models.ID) ([]byte, string, error)
	Count(ctx context.Context) (int64, error)
}

// Health reports the liveness of the backing stores for /status.
type Health interface {
	DBAlive(ctx context.Context) bool
	SessionsAlive(ctx context.Context) bool
}

type Server struct {
	address string
	logger  logging.Logger
	users   UserService
	files   FileService
	health  Health
}

func NewServer(address string, logger logging.Logger, us UserService, fs FileService, h Health) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		users:   us,
		files:   fs,
		health:  h,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", s.getStatus)
	mux.HandleFunc("GET /stats", s.getStats)

	mux.HandleFunc("POST /users", s.postUsers)
	mux.HandleFunc("GET /users/me", s.getMe)

	mux.HandleFunc("GET /connect", s.getConnect)
	mux.HandleFunc("GET /disconnect", s.getDisconnect)

	mux.HandleFunc("POST /files", s.postFiles)
	mux.HandleFunc("GET /files", s.getFiles)
	mux.HandleFunc("GET /files/{id}", s.getFileByID)
	mux.HandleFunc("PUT /files/{id}/publish", s.putPublish)
	mux.HandleFunc("PUT /files/{id}/unpublish", s.putUnpublish)
	mux.HandleFunc("GET /files/{id}/data", s.getFileData)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
