package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/controllers"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/middleware"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/accounts"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/batches"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/cart"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/orders"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/payments"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/suppliers"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/vision"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Accounts  accounts.Service
	Products  products.Service
	Suppliers suppliers.Service
	Batches   batches.Service
	Cart      cart.Service
	Orders    orders.Service
	Payments  payments.Service
	Vision    vision.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	services Services,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(services.Accounts, logg))
		r.With(middleware.Idempotency(redisClient, logg)).Post("/register", controllers.Register(services.Accounts, logg))
	})

	// Provider callbacks authenticate by checksum, not bearer token.
	r.Post("/api/v1/payments/webhook", controllers.PaymentWebhook(services.Payments, logg))

	// Public catalog.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(services.Products, logg))
		r.Post("/search-by-image", controllers.ProductSearchByImage(services.Vision, logg))
		r.Get("/{productID}", controllers.ProductGet(services.Products, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/auth/me", func(r chi.Router) {
			r.Get("/", controllers.Profile(services.Accounts, logg))
			r.Put("/", controllers.UpdateProfile(services.Accounts, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleCustomer))
			r.Get("/", controllers.CartGet(services.Cart, logg))
			r.Delete("/", controllers.CartClear(services.Cart, logg))
			r.Post("/items", controllers.CartAddItem(services.Cart, logg))
			r.Put("/items/{productID}", controllers.CartUpdateItem(services.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(services.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.RoleCustomer)).Post("/", controllers.OrderCreate(services.Orders, logg))
			r.Get("/my-orders", controllers.OrderListMine(services.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleStaff, enums.RoleAdmin))
				r.Get("/manage", controllers.OrderManage(services.Orders, logg))
				r.Get("/stats", controllers.OrderStats(services.Orders, logg))
				r.Patch("/{orderID}/update-status", controllers.OrderUpdateStatus(services.Orders, logg))
				r.Patch("/{orderID}/payment-status", controllers.OrderUpdatePaymentStatus(services.Orders, logg))
			})
			r.With(middleware.RequireRole(logg, enums.RoleStaff)).Patch("/{orderID}/status", controllers.OrderUpdateStatusForCreator(services.Orders, logg))

			r.Get("/{orderID}", controllers.OrderGet(services.Orders, logg))
			r.With(middleware.RequireRole(logg, enums.RoleCustomer)).Post("/{orderID}/cancel", controllers.OrderCancel(services.Orders, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleCustomer))
			r.Post("/", controllers.PaymentCreate(services.Payments, logg))
			r.Post("/reset/{orderID}", controllers.PaymentReset(services.Payments, logg))
			r.Get("/order/{orderID}", controllers.PaymentListByOrder(services.Payments, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleStaff, enums.RoleAdmin))

			r.Post("/products", controllers.ProductCreate(services.Products, logg))
			r.Put("/products/{productID}", controllers.ProductUpdate(services.Products, logg))
			r.Delete("/products/{productID}", controllers.ProductDelete(services.Products, logg))

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", controllers.SupplierList(services.Suppliers, logg))
				r.Post("/", controllers.SupplierCreate(services.Suppliers, logg))
				r.Get("/{supplierID}", controllers.SupplierGet(services.Suppliers, logg))
				r.Put("/{supplierID}", controllers.SupplierUpdate(services.Suppliers, logg))
				r.Delete("/{supplierID}", controllers.SupplierDelete(services.Suppliers, logg))
			})

			r.Route("/batches", func(r chi.Router) {
				r.Get("/", controllers.BatchList(services.Batches, logg))
				r.Post("/", controllers.BatchCreate(services.Batches, logg))
				r.Get("/expiring-soon", controllers.BatchExpiringSoon(services.Batches, logg))
				r.Get("/{batchID}", controllers.BatchGet(services.Batches, logg))
				r.Post("/{batchID}/approve", controllers.BatchApprove(services.Batches, logg))
				r.Post("/{batchID}/dispose", controllers.BatchDispose(services.Batches, logg))
			})

			r.Route("/stock", func(r chi.Router) {
				r.Get("/movements", controllers.MovementList(services.Batches, logg))
				r.Get("/report", controllers.StockReport(services.Batches, logg))
			})
		})

		r.With(middleware.RequireRole(logg, enums.RoleAdmin)).Post("/admin/staff", controllers.CreateStaff(services.Accounts, logg))
	})

	return r
}
