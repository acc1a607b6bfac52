package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/premiumretail/retailer-platform-backend/api/controllers"
	"github.com/premiumretail/retailer-platform-backend/api/middleware"
	"github.com/premiumretail/retailer-platform-backend/internal/applications"
	"github.com/premiumretail/retailer-platform-backend/internal/auth"
	"github.com/premiumretail/retailer-platform-backend/internal/billing"
	"github.com/premiumretail/retailer-platform-backend/internal/contact"
	"github.com/premiumretail/retailer-platform-backend/internal/orders"
	"github.com/premiumretail/retailer-platform-backend/internal/payments"
	"github.com/premiumretail/retailer-platform-backend/internal/products"
	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	"github.com/premiumretail/retailer-platform-backend/pkg/db"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
	"github.com/premiumretail/retailer-platform-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	applicationService applications.Service,
	productService products.Service,
	orderService orders.Service,
	paymentService payments.Service,
	billingService billing.Service,
	contactService contact.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	// Retailer surface.
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints. No session required.
		r.Post("/applications", controllers.SubmitApplication(applicationService, logg))
		r.Post("/contact", controllers.SubmitContactMessage(contactService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/auth/login", controllers.Login(authService, enums.PrincipalRoleUser, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(enums.PrincipalRoleUser, authService, logg))
			r.Use(middleware.RequireRole(enums.PrincipalRoleUser, logg))
			r.Use(middleware.CSRF(authService, logg))

			r.Post("/auth/logout", controllers.Logout(authService, logg))

			r.Get("/products", controllers.ListProducts(productService, logg))
			r.Get("/products/{productId}", controllers.GetProduct(productService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.CreateOrder(orderService, logg))
				r.Get("/", controllers.ListMyOrders(orderService, logg))
				r.Get("/{orderId}", controllers.GetMyOrder(orderService, logg))
				r.Post("/{orderId}/payments", controllers.SubmitPayment(paymentService, logg))
				r.Get("/{orderId}/payments", controllers.ListOrderPayments(paymentService, logg))
				r.Get("/{orderId}/bill", controllers.GetMyOrderBill(billingService, logg))
			})

			r.Get("/bills", controllers.ListMyBills(billingService, logg))
		})
	})

	// Admin surface.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/auth/login", controllers.Login(authService, enums.PrincipalRoleAdmin, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(enums.PrincipalRoleAdmin, authService, logg))
			r.Use(middleware.RequireRole(enums.PrincipalRoleAdmin, logg))
			r.Use(middleware.CSRF(authService, logg))

			r.Post("/auth/logout", controllers.Logout(authService, logg))

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", controllers.ListApplications(applicationService, logg))
				r.Get("/{applicationId}", controllers.GetApplication(applicationService, logg))
				r.Post("/{applicationId}/approve", controllers.ApproveApplication(applicationService, logg))
				r.Post("/{applicationId}/reject", controllers.RejectApplication(applicationService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/{orderId}", controllers.AdminGetOrder(orderService, logg))
				r.Get("/{orderId}/payments", controllers.AdminListOrderPayments(paymentService, logg))
				r.Post("/{orderId}/bill", controllers.GenerateBill(billingService, logg))
				r.Post("/{orderId}/complete", controllers.CompleteOrder(orderService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/{paymentId}/verify", controllers.VerifyPayment(paymentService, logg))
				r.Post("/{paymentId}/reject", controllers.RejectPayment(paymentService, logg))
			})

			r.Route("/contact-messages", func(r chi.Router) {
				r.Get("/", controllers.ListContactMessages(contactService, logg))
				r.Post("/{messageId}/read", controllers.MarkContactMessageRead(contactService, logg))
				r.Post("/{messageId}/reply", controllers.ReplyContactMessage(contactService, logg))
			})
		})
	})

	return r
}
