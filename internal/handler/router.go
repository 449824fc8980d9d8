package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/auth"
	"github.com/unclebandit/ostrich-customer-api/internal/config"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
	"github.com/unclebandit/ostrich-customer-api/internal/service"
	"github.com/unclebandit/ostrich-customer-api/internal/storage"
)

// Deps is everything the HTTP layer needs, built once in main.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	DB     Pinger

	Tokens  *auth.Tokens
	Revoker auth.Revoker

	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Requests  *service.RequestService

	Customers     repository.CustomerRepositoryInterface
	Products      repository.ProductRepositoryInterface
	Tickets       repository.ServiceTicketRepositoryInterface
	Orders        repository.OrderRepositoryInterface
	Notifications repository.NotificationRepositoryInterface
	Enquiries     repository.EnquiryRepositoryInterface
	Locations     repository.LocationRepositoryInterface
	Preferences   repository.PreferenceRepositoryInterface

	Messages auth.Deliverer
	Files    storage.FileStore
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(RequestLogger(log), Recoverer(log))
	if cfg.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		fail(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	gate := RequireAuth(d.Tokens, d.Customers.Exists, d.Revoker, log)

	system := &SystemHandler{ServiceName: cfg.ServiceName, Version: cfg.Version, DB: d.DB, Log: log}
	r.Get("/", system.root)
	r.Get("/health", system.health)

	authH := &AuthHandler{Service: d.Auth, Log: log}
	dashboard := &DashboardHandler{Service: d.Dashboard, Log: log}
	products := &ProductHandler{Products: d.Products, Log: log}
	services := &ServiceHandler{Tickets: d.Tickets, Requests: d.Requests, Log: log}
	orders := &OrderHandler{Orders: d.Orders, Products: d.Products, Log: log}
	profile := &ProfileHandler{Customers: d.Customers, Auth: d.Auth, Log: log}
	notifications := &NotificationHandler{Notifications: d.Notifications, Log: log}
	enquiries := &EnquiryHandler{Enquiries: d.Enquiries, Requests: d.Requests, Log: log}
	content := &ContentHandler{Products: d.Products, Locations: d.Locations, Support: cfg.Support, Log: log}
	utilities := &UtilityHandler{
		Messages:       d.Messages,
		Files:          d.Files,
		Preferences:    d.Preferences,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		Log:            log,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) { authH.Register(r, gate) })
		r.Route("/dashboard", func(r chi.Router) { dashboard.Register(r, gate) })
		r.Route("/products", func(r chi.Router) { products.Register(r, gate) })
		r.Route("/services", func(r chi.Router) { services.Register(r, gate) })
		r.Route("/orders", func(r chi.Router) { orders.Register(r, gate) })
		r.Route("/profile", func(r chi.Router) { profile.Register(r, gate) })
		r.Route("/notifications", func(r chi.Router) { notifications.Register(r, gate) })
		r.Route("/enquiries", func(r chi.Router) { enquiries.Register(r, gate) })
		r.Route("/support", content.RegisterSupport)
		r.Route("/catalog", content.RegisterCatalog)
		r.Route("/gallery", content.RegisterGallery)
		r.Route("/locations", content.RegisterLocations)
		r.Route("/warranty", func(r chi.Router) { orders.RegisterWarranty(r, gate) })
		r.Route("/sales", func(r chi.Router) { orders.RegisterSales(r, gate) })
		r.Route("/utilities", func(r chi.Router) { utilities.Register(r, gate) })
	})
	return r
}
