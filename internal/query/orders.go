package query

import (
	"context"
	"fmt"
	"time"

	"livraria/internal/domain"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/cache"
	"livraria/internal/pkg/logger"
	"livraria/internal/pkg/metrics"
)

// OrderRepository define o contrato que esta camada espera do acesso remoto
// aos pedidos.
type OrderRepository interface {
	FindAll(ctx context.Context, filter domain.OrderFilter) (domain.OrdersPage, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	Create(ctx context.Context, payload domain.CreateOrderPayload) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
}

// OrderQueries é a camada de Query de pedidos. É por aqui que o checkout
// submete a criação do pedido (operação Create).
type OrderQueries struct {
	repo    OrderRepository
	cache   cache.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewOrderQueries cria a camada de Query de pedidos.
func NewOrderQueries(repo OrderRepository, c cache.Client, ttl time.Duration, m *metrics.Metrics, log logger.Logger) *OrderQueries {
	return &OrderQueries{repo: repo, cache: c, ttl: ttl, metrics: m, log: log}
}

// List busca uma página de pedidos com cache por {status, page, limit}.
func (q *OrderQueries) List(ctx context.Context, filter domain.OrderFilter) (domain.OrdersPage, error) {
	if filter.Status != "" && !domain.ValidOrderStatus(filter.Status) {
		return domain.OrdersPage{}, apperror.NewValidationError(fmt.Sprintf("Status de pedido inválido: %s.", filter.Status))
	}
	return fetchThrough(ctx, q.cache, q.metrics, "orders", OrderListKey(filter), q.ttl,
		func(ctx context.Context) (domain.OrdersPage, error) {
			return q.repo.FindAll(ctx, filter)
		})
}

// Get busca um pedido com cache por id.
func (q *OrderQueries) Get(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, apperror.NewValidationError("O ID do pedido é obrigatório.")
	}
	return fetchThrough(ctx, q.cache, q.metrics, "orders", OrderDetailKey(id), q.ttl,
		func(ctx context.Context) (domain.Order, error) {
			return q.repo.FindByID(ctx, id)
		})
}

// Create submete um novo pedido e, no sucesso, invalida toda a raiz de
// pedidos. Em caso de erro NADA é alterado — nem cache, nem estado local.
func (q *OrderQueries) Create(ctx context.Context, payload domain.CreateOrderPayload) (domain.Order, error) {
	if payload.CustomerName == "" || payload.CustomerEmail == "" {
		return domain.Order{}, apperror.NewValidationError("Nome e e-mail do cliente são obrigatórios.")
	}
	if len(payload.Items) == 0 {
		return domain.Order{}, apperror.NewValidationError("O pedido deve conter ao menos um item.")
	}
	for _, item := range payload.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return domain.Order{}, apperror.NewValidationError("Cada item do pedido requer produto e quantidade >= 1.")
		}
	}

	order, err := q.repo.Create(ctx, payload)
	if err != nil {
		return domain.Order{}, err
	}

	q.invalidate(ctx)
	q.metrics.OrderPlaced()
	q.log.Info("Pedido criado.", map[string]interface{}{"id": order.ID, "total": order.Total})
	return order, nil
}

// UpdateStatus troca o status de um pedido (console admin). Invalida a raiz
// e semeia a chave de detalhe com o registro retornado.
func (q *OrderQueries) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, apperror.NewValidationError("O ID do pedido é obrigatório.")
	}
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, apperror.NewValidationError(fmt.Sprintf("Status de pedido inválido: %s.", status))
	}

	updated, err := q.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Order{}, err
	}

	q.invalidate(ctx)
	seed(ctx, q.cache, OrderDetailKey(updated.ID), updated, q.ttl)
	q.log.Info("Status do pedido atualizado.", map[string]interface{}{"id": updated.ID, "status": string(updated.Status)})
	return updated, nil
}

func (q *OrderQueries) invalidate(ctx context.Context) {
	if err := q.cache.DeletePrefix(ctx, OrdersRoot); err != nil {
		q.log.Warn("Falha ao invalidar cache de pedidos.", map[string]interface{}{"error": err.Error()})
	}
}
