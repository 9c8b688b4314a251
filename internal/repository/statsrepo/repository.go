package statsrepo

import (
	"context"
	"net/http"

	"livraria/internal/domain"
	"livraria/internal/pkg/apiclient"
)

// StatsRepository lê os agregados do dashboard no backend remoto.
type StatsRepository struct {
	api *apiclient.Client
}

// NewStatsRepository cria e retorna uma nova instância do Repositório.
func NewStatsRepository(api *apiclient.Client) *StatsRepository {
	return &StatsRepository{api: api}
}

// Fetch busca os contadores agregados e as entradas recentes do log de
// atividades.
func (r *StatsRepository) Fetch(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := r.api.Do(ctx, http.MethodGet, "/api/stats", nil, nil, &stats)
	if err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}
