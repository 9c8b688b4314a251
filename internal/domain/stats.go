package domain

import "time"

// ActivityLog é uma entrada do log de atividades (append-only, mantido pelo
// backend remoto — este serviço apenas lê).
type ActivityLog struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"` // signup, login, order_created, product_*, role_changed
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId,omitempty"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats agrega os contadores do dashboard administrativo.
// Nenhuma mutação isolada consegue invalidá-los de forma barata, então eles
// são atualizados por poll periódico, não por invalidação.
type Stats struct {
	TotalProducts    int                 `json:"totalProducts"`
	OrdersThisMonth  int                 `json:"ordersThisMonth"`
	RevenueThisMonth float64             `json:"revenueThisMonth"`
	Growth           *string             `json:"growth"`
	OrdersByStatus   map[OrderStatus]int `json:"ordersByStatus"`
	RecentLogs       []ActivityLog       `json:"recentLogs"`
}
