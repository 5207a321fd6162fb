package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medtrack/internal/http/handlers"
	appmw "medtrack/internal/http/middleware"
	"medtrack/internal/http/middleware/ratelimit"
	"medtrack/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
// A nil rate limit middleware disables limiting.
func New(
	logger logx.Logger,
	rl *ratelimit.Middleware,
	h *handlers.Handlers,
	del *handlers.DeliveryHandler,
	asg *handlers.AssignmentHandler,
	rid *handlers.RiderHandler,
	pat *handlers.PatientHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if rl != nil {
		r.Use(rl.Handler())
	}
	r.Use(appmw.Observability(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(h.NotFound))

	r.Route("/packages", func(r chi.Router) {
		r.Post("/", del.CreatePackage)
	})

	r.Route("/deliveries", func(r chi.Router) {
		r.Post("/", del.Create)
		r.Get("/", del.List)
		r.Put("/", del.Update)
		r.Get("/code/{code}", del.GetByCode)
		r.Get("/{id}", del.GetByID)
		r.Delete("/{id}", del.Delete)
		r.Get("/{id}/qr", del.QRCode)
		r.Post("/{id}/start", del.Start)
		r.Post("/{id}/delivered", del.Delivered)
		r.Post("/{id}/fail", del.Fail)
		r.Put("/{id}/payment", del.Payment)
	})

	r.Route("/assignment", func(r chi.Router) {
		r.Get("/patients/{id}", asg.Begin)
		r.Get("/riders", asg.RiderPool)
		r.Post("/rider", asg.SelectRider)
		r.Post("/validate", asg.ValidatePackage)
		r.Post("/confirm", asg.Confirm)
	})

	r.Route("/riders", func(r chi.Router) {
		r.Post("/", rid.Create)
		r.Get("/", rid.List)
		r.Put("/", rid.Update)
		r.Get("/{id}", rid.GetByID)
		r.Delete("/{id}", rid.Delete)
		r.Post("/{id}/rating", rid.Rate)
		r.Get("/{id}/occupancy", rid.Occupancy)
		r.Get("/{id}/deliveries", del.ByRider)
	})

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", pat.Create)
		r.Get("/", pat.List)
		r.Put("/", pat.Update)
		r.Get("/{id}", pat.GetByID)
		r.Delete("/{id}", pat.Delete)
		r.Post("/{id}/prescriptions", pat.AddPrescription)
		r.Post("/{id}/history", pat.RecordEvent)
		r.Get("/{id}/deliveries", del.ByPatient)
	})

	r.Get("/stats/overview", del.Overview)

	return r
}
