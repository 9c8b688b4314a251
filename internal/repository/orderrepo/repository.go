package orderrepo

import (
	"context"
	"net/http"

	"livraria/internal/domain"
	"livraria/internal/pkg/apiclient"
)

// statusBody é o corpo de PATCH /api/orders/:id/status.
type statusBody struct {
	Status domain.OrderStatus `json:"status"`
}

// OrderRepository é a camada de acesso aos pedidos no backend remoto.
type OrderRepository struct {
	api *apiclient.Client
}

// NewOrderRepository cria e retorna uma nova instância do Repositório.
func NewOrderRepository(api *apiclient.Client) *OrderRepository {
	return &OrderRepository{api: api}
}

// FindAll lista pedidos paginados, opcionalmente filtrados por status.
func (r *OrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) (domain.OrdersPage, error) {
	var page domain.OrdersPage
	err := r.api.Do(ctx, http.MethodGet, "/api/orders", filter.QueryValues(), nil, &page)
	if err != nil {
		return domain.OrdersPage{}, err
	}
	return page, nil
}

// FindByID busca um pedido pelo ID.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	err := r.api.Do(ctx, http.MethodGet, "/api/orders/"+id, nil, nil, &order)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// Create submete um novo pedido. O backend captura o preço de cada item no
// momento da compra (priceAtTime) e registra a entrada order_created no log
// de atividades.
func (r *OrderRepository) Create(ctx context.Context, payload domain.CreateOrderPayload) (domain.Order, error) {
	var order domain.Order
	err := r.api.Do(ctx, http.MethodPost, "/api/orders", nil, payload, &order)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// UpdateStatus troca o status de um pedido e retorna o registro atualizado.
// PATCH é idempotente por id.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	var order domain.Order
	err := r.api.Do(ctx, http.MethodPatch, "/api/orders/"+id+"/status", nil, statusBody{Status: status}, &order)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
