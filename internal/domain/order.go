package domain

import (
	"net/url"
	"strconv"
	"time"
)

// OrderStatus é o ciclo de vida de um pedido no backend remoto.
type OrderStatus string

const (
	StatusProcessando OrderStatus = "Processando"
	StatusEmTransito  OrderStatus = "Em_transito"
	StatusEntregue    OrderStatus = "Entregue"
	StatusCancelado   OrderStatus = "Cancelado"
)

// ValidOrderStatus verifica se o valor pertence ao conjunto fechado de status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusProcessando, StatusEmTransito, StatusEntregue, StatusCancelado:
		return true
	}
	return false
}

// OrderItem captura um item do pedido com o preço NO MOMENTO DA COMPRA.
// PriceAtTime é um snapshot: alterações posteriores de preço no catálogo
// não o afetam.
type OrderItem struct {
	ID          string   `json:"id"`
	OrderID     string   `json:"orderId"`
	ProductID   string   `json:"productId"`
	Quantity    int      `json:"quantity"`
	PriceAtTime float64  `json:"priceAtTime"`
	Product     *Product `json:"product,omitempty"`
}

// Order é a entidade de pedido, de posse do backend remoto.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Items         []OrderItem `json:"items"`
}

// CreateOrderItem é um item do corpo de criação de pedido.
type CreateOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderPayload é o corpo de POST /api/orders.
// O pedido carrega o nome/e-mail declarados pelo cliente no checkout,
// independentemente da identidade da sessão.
type CreateOrderPayload struct {
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	Items         []CreateOrderItem `json:"items"`
}

// OrdersPage é a resposta paginada de GET /api/orders.
type OrdersPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// OrderFilter define os parâmetros de listagem de pedidos (console admin).
type OrderFilter struct {
	Status OrderStatus
	Page   int
	Limit  int
}

// QueryValues converte o filtro em query string canônica (mesma regra de
// determinismo do ProductFilter).
func (f OrderFilter) QueryValues() url.Values {
	params := url.Values{}
	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	return params
}
