package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"livraria/internal/domain"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/logger"
)

// ProductManager define as operações de escrita de catálogo que o console
// admin usa (a leitura pública mora no handler de catálogo).
type ProductManager interface {
	Create(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	Update(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// OrderManager define as operações de pedidos do console admin.
type OrderManager interface {
	List(ctx context.Context, filter domain.OrderFilter) (domain.OrdersPage, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
}

// StatsReader define a leitura do painel de métricas.
type StatsReader interface {
	Get(ctx context.Context) (domain.Stats, error)
}

// Handler agrupa os endpoints do console administrativo. A autenticação e a
// checagem de papéis acontecem no middleware; aqui só chega requisição já
// autorizada.
type Handler struct {
	Products ProductManager
	Orders   OrderManager
	Stats    StatsReader
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler com suas dependências.
func NewHandler(products ProductManager, orders OrderManager, stats StatsReader, log logger.Logger) *Handler {
	return &Handler{Products: products, Orders: orders, Stats: stats, Logger: log}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	})
}

// --- Produtos ---

// ProductsHandler lida com POST /v1/admin/produtos.
func (h *Handler) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var input domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo da requisição inválido."), 0)
		return
	}

	product, err := h.Products.Create(r.Context(), input)
	h.handleServiceResponse(w, r, product, err, http.StatusCreated)
}

// ProductHandler lida com PUT e DELETE em /v1/admin/produtos/{id}.
func (h *Handler) ProductHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/admin/produtos/")
	if id == "" || strings.Contains(id, "/") {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("ID de produto inválido."), 0)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input domain.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo da requisição inválido."), 0)
			return
		}
		product, err := h.Products.Update(r.Context(), id, input)
		h.handleServiceResponse(w, r, product, err, http.StatusOK)

	case http.MethodDelete:
		err := h.Products.Delete(r.Context(), id)
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// --- Pedidos ---

// OrdersHandler lida com GET /v1/admin/pedidos.
// Filtros: status, page, limit.
func (h *Handler) OrdersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := domain.OrderFilter{Status: domain.OrderStatus(q.Get("status"))}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("page deve ser um inteiro positivo."), 0)
			return
		}
		filter.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("limit deve ser um inteiro positivo."), 0)
			return
		}
		filter.Limit = limit
	}

	page, err := h.Orders.List(r.Context(), filter)
	h.handleServiceResponse(w, r, page, err, http.StatusOK)
}

// OrderHandler lida com GET /v1/admin/pedidos/{id} e
// PATCH /v1/admin/pedidos/{id}/status.
func (h *Handler) OrderHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/admin/pedidos/")

	// Sub-rota de transição de status.
	if id, ok := strings.CutSuffix(rest, "/status"); ok {
		if r.Method != http.MethodPatch {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		if id == "" || strings.Contains(id, "/") {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("ID de pedido inválido."), 0)
			return
		}

		var input struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Status == "" {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo inválido: informe status."), 0)
			return
		}

		order, err := h.Orders.UpdateStatus(r.Context(), id, domain.OrderStatus(input.Status))
		h.handleServiceResponse(w, r, order, err, http.StatusOK)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("ID de pedido inválido."), 0)
		return
	}

	order, err := h.Orders.Get(r.Context(), rest)
	h.handleServiceResponse(w, r, order, err, http.StatusOK)
}

// --- Painel ---

// StatsHandler lida com GET /v1/admin/stats.
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.Stats.Get(r.Context())
	h.handleServiceResponse(w, r, stats, err, http.StatusOK)
}
