package catalog

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

// ProductReader define o contrato que o Handler espera da camada de Query.
type ProductReader interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
}

// Handler agrupa os endpoints públicos do catálogo.
type Handler struct {
	Products ProductReader
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando a camada de Query e o Logger.
func NewHandler(products ProductReader, log logger.Logger) *Handler {
	return &Handler{Products: products, Logger: log}
}

// handleServiceResponse processa erros e envia respostas padronizadas ao cliente.
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

// ListHandler lida com GET /v1/catalogo.
// Filtros: category, format, search, inStock.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category: domain.ProductCategory(q.Get("category")),
		Format:   domain.ProductFormat(q.Get("format")),
		Search:   q.Get("search"),
	}
	if raw := q.Get("inStock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("inStock deve ser true ou false."), 0)
			return
		}
		filter.InStock = &inStock
	}

	products, err := h.Products.List(r.Context(), filter)
	h.handleServiceResponse(w, r, products, err, http.StatusOK)
}

// GetHandler lida com GET /v1/catalogo/{id}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/catalogo/")
	if id == "" || strings.Contains(id, "/") {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("ID de produto inválido."), 0)
		return
	}

	product, err := h.Products.Get(r.Context(), id)
	h.handleServiceResponse(w, r, product, err, http.StatusOK)
}
