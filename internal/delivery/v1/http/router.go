package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	router *chi.Mux
	cfg    *cfg.StorefrontCfg
	logger logger.Logger
}

func NewRouter(router *chi.Mux, cfg *cfg.StorefrontCfg, logger logger.Logger) *Router {
	return &Router{router: router, cfg: cfg, logger: logger}
}

// Init регистрирует маршруты поверх одного процессного состояния: сессия, корзина,
// избранное и сравнение общие для всех клиентов, cookie и заголовки не различают пользователей.
func (r *Router) Init(storefrontUC usecase.StorefrontUC, sessionUC usecase.SessionUC, searchUC usecase.SearchUC) {
	r.router.Use(middleware.RequestID, middleware.Recoverer)

	rs := responder{logger: r.logger, loginPath: r.cfg.LoginPath}

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerSessionRoutes(v1, NewSessionHandler(sessionUC, rs, r.cfg.MaxPhotoSize))
		registerProductRoutes(v1, NewProductHandler(storefrontUC, rs, r.cfg.MaxPhotoSize))
		registerCartRoutes(v1, NewCartHandler(storefrontUC, rs))
		registerWishlistRoutes(v1, NewWishlistHandler(storefrontUC, rs))
		registerCompareRoutes(v1, NewCompareHandler(storefrontUC, rs))
		registerSearchRoutes(v1, NewSearchHandler(searchUC, rs))
	})
}

func registerSessionRoutes(router chi.Router, h *SessionHandler) {
	router.Route("/session", func(s chi.Router) {
		s.Get("/", h.current)
		s.Post("/", h.signIn)
		s.Delete("/", h.signOut)
		s.Put("/profile-image", h.setProfileImage)
		s.Post("/visit", h.firstVisit)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.addProduct)
		pr.Get("/{id}", h.getProduct)
		pr.Delete("/{id}", h.removeProduct)
	})
	router.Post("/discount/validate", h.validateDiscount)
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(c chi.Router) {
		c.Get("/", h.getCart)
		c.Delete("/", h.clear)
		c.Post("/items", h.addItem)
		c.Patch("/items/{id}", h.updateQuantity)
		c.Delete("/items/{id}", h.removeItem)
		c.Post("/items/{id}/increment", h.increment)
		c.Post("/items/{id}/decrement", h.decrement)
	})
}

func registerWishlistRoutes(router chi.Router, h *WishlistHandler) {
	router.Route("/wishlist", func(wl chi.Router) {
		wl.Get("/", h.getWishlist)
		wl.Delete("/", h.clear)
		wl.Post("/items", h.addItem)
		wl.Delete("/items/{id}", h.removeItem)
		wl.Post("/items/{id}/toggle", h.toggle)
	})
}

func registerCompareRoutes(router chi.Router, h *CompareHandler) {
	router.Route("/compare", func(c chi.Router) {
		c.Get("/", h.getCompare)
		c.Delete("/", h.clear)
		c.Post("/items", h.addItem)
		c.Delete("/items/{id}", h.removeItem)
		c.Post("/items/{id}/toggle", h.toggle)
	})
}

func registerSearchRoutes(router chi.Router, h *SearchHandler) {
	router.Route("/search", func(s chi.Router) {
		s.Get("/", h.find)
		s.Get("/recent", h.recent)
	})
}
