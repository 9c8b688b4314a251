package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"livraria/internal/api/admin"
	"livraria/internal/api/catalog"
	"livraria/internal/api/shopping"
	"livraria/internal/domain"
	"livraria/internal/pkg/cache"
	"livraria/internal/pkg/middleware"
	"livraria/internal/pkg/token"

	"livraria/config"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	cfg *config.Config,
	catalogHandler *catalog.Handler,
	shoppingHandler *shopping.Handler,
	adminHandler *admin.Handler,
	tokenSvc *token.Service,
	cacheClient cache.Client,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	// Em projetos maiores, pode-se usar um mux de terceiros (e.g., gorilla/mux, chi)
	mux := http.NewServeMux()

	// --- 1. Rotas de Health Check e Observabilidade ---
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// --- 2. Rotas Públicas: Catálogo (v1) ---

	// GET /v1/catalogo (listagem com filtros)
	mux.HandleFunc("/v1/catalogo", catalogHandler.ListHandler)

	// GET /v1/catalogo/{id}
	mux.HandleFunc("/v1/catalogo/", catalogHandler.GetHandler)

	// --- 3. Rotas Públicas: Carrinho e Checkout (v1) ---
	// A sessão viaja no header X-Session-ID; não há autenticação aqui.

	mux.HandleFunc("/v1/carrinho", shoppingHandler.CartHandler)
	mux.HandleFunc("/v1/carrinho/itens", shoppingHandler.CartItemsHandler)
	mux.HandleFunc("/v1/carrinho/itens/", shoppingHandler.CartItemHandler)

	mux.HandleFunc("/v1/checkout", shoppingHandler.CheckoutHandler)
	mux.HandleFunc("/v1/checkout/endereco", shoppingHandler.CheckoutAddressHandler)
	mux.HandleFunc("/v1/checkout/pagamento", shoppingHandler.CheckoutPaymentHandler)
	mux.HandleFunc("/v1/checkout/avancar", shoppingHandler.CheckoutNextHandler)
	mux.HandleFunc("/v1/checkout/voltar", shoppingHandler.CheckoutBackHandler)
	mux.HandleFunc("/v1/checkout/confirmar", shoppingHandler.CheckoutConfirmHandler)

	// --- 4. Rotas Protegidas: Console Admin (v1) ---
	// Cadeia: AuthMiddleware (valida o JWT) -> PermissionMiddleware (papéis).

	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	catalogWriters := middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleEditor)
	orderManagers := middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleVendedor)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)

	mux.HandleFunc("/v1/admin/produtos", authMiddleware(catalogWriters(adminHandler.ProductsHandler)))
	mux.HandleFunc("/v1/admin/produtos/", authMiddleware(catalogWriters(adminHandler.ProductHandler)))

	mux.HandleFunc("/v1/admin/pedidos", authMiddleware(orderManagers(adminHandler.OrdersHandler)))
	mux.HandleFunc("/v1/admin/pedidos/", authMiddleware(orderManagers(adminHandler.OrderHandler)))

	mux.HandleFunc("/v1/admin/stats", authMiddleware(adminOnly(adminHandler.StatsHandler)))

	// --- 5. Middlewares Globais ---
	// O rate limit envolve todo o mux e usa o cache compartilhado.

	rateLimited := middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)(mux)

	return rateLimited
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
