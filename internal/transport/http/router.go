package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-marketing-api/internal/application/batch"
	"github.com/go-marketing-api/internal/application/campaign"
	"github.com/go-marketing-api/internal/application/contact"
	"github.com/go-marketing-api/internal/application/verify"
	"github.com/go-marketing-api/internal/config"
	"github.com/go-marketing-api/internal/transport/http/handler"
	appmiddleware "github.com/go-marketing-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to the verification endpoints,
	// which fan out to reputation checks.
	verifyRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	cls := deps.Classifier
	if cls == nil {
		cls = verify.NewClassifier()
	}

	batchSvc := batch.NewService(deps.BatchRepo, deps.ResultRepo, cls)
	campaignSvc := campaign.NewService(deps.CampaignRepo, deps.AnalyticsRepo, deps.MembershipRepo, deps.ContactListRepo, deps.Mailer, deps.SMSSender)
	contactSvc := contact.NewService(deps.ContactRepo, deps.ContactListRepo, deps.MembershipRepo, deps.S3Store)

	healthH := handler.NewHealthHandler()
	batchH := handler.NewBatchHandler(batchSvc)
	campaignH := handler.NewCampaignHandler(campaignSvc)
	contactH := handler.NewContactHandler(contactSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(verifyRL.Limit).Post("/verify-emails", batchH.Verify)

			r.With(verifyRL.Limit).Post("/verification-batches", batchH.Create)
			r.Get("/verification-batches", batchH.List)
			r.Get("/verification-batches/{id}", batchH.Get)
			r.Get("/verification-batches/{id}/results", batchH.Results)
			r.Post("/verification-batches/{id}/cancel", batchH.Cancel)

			r.Post("/campaigns", campaignH.Create)
			r.Get("/campaigns", campaignH.List)
			r.Get("/campaigns/{id}", campaignH.Get)
			r.Post("/send-campaign", campaignH.Send)
			r.Post("/campaigns/{id}/pause", campaignH.Pause)
			r.Post("/campaigns/{id}/cancel", campaignH.Cancel)
			r.Post("/campaigns/{id}/reset", campaignH.Reset)

			r.Post("/contacts", contactH.Create)
			r.Get("/contacts", contactH.List)
			r.Delete("/contacts/{id}", contactH.Delete)
			r.Post("/contact-lists", contactH.CreateList)
			r.Get("/contact-lists", contactH.ListLists)
			r.Post("/contact-lists/{id}/contacts", contactH.AddMember)
			r.Get("/contact-lists/{id}/contacts", contactH.ListMembers)
			r.Delete("/contact-lists/{id}/contacts/{contactID}", contactH.RemoveMember)
			r.Post("/contact-lists/{id}/import", contactH.Import)
		})
	})

	return r
}
