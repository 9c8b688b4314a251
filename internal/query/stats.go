package query

import (
	"context"
	"time"

	"livraria/internal/domain"
	"livraria/internal/pkg/cache"
	"livraria/internal/pkg/logger"
	"livraria/internal/pkg/metrics"
)

// StatsRepository define o contrato de leitura dos agregados do dashboard.
type StatsRepository interface {
	Fetch(ctx context.Context) (domain.Stats, error)
}

// StatsQueries mantém os agregados do dashboard.
// Diferente de produtos e pedidos, as estatísticas NÃO participam da
// invalidação por mutação: nenhuma mutação isolada consegue invalidá-las de
// forma barata. Em vez disso, um poll de intervalo fixo renova a entrada.
type StatsQueries struct {
	repo    StatsRepository
	cache   cache.Client
	refresh time.Duration
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewStatsQueries cria a camada de Query de estatísticas.
func NewStatsQueries(repo StatsRepository, c cache.Client, refresh time.Duration, m *metrics.Metrics, log logger.Logger) *StatsQueries {
	return &StatsQueries{repo: repo, cache: c, refresh: refresh, metrics: m, log: log}
}

// Get lê os agregados, servindo do cache quando a entrada ainda é fresca.
// O TTL é o próprio intervalo de refresh: mesmo sem o poller rodando, uma
// leitura nunca observa dados mais velhos que um ciclo.
func (q *StatsQueries) Get(ctx context.Context) (domain.Stats, error) {
	return fetchThrough(ctx, q.cache, q.metrics, "stats", StatsKey, q.refresh,
		func(ctx context.Context) (domain.Stats, error) {
			return q.repo.Fetch(ctx)
		})
}

// StartPolling renova a entrada de estatísticas a cada intervalo até o
// contexto ser cancelado. Falhas individuais são logadas e a entrada antiga
// permanece válida até a próxima tentativa.
func (q *StatsQueries) StartPolling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(q.refresh)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats, err := q.repo.Fetch(ctx)
				if err != nil {
					q.log.Warn("Falha ao renovar estatísticas.", map[string]interface{}{"error": err.Error()})
					continue
				}
				seed(ctx, q.cache, StatsKey, stats, q.refresh*2)
			}
		}
	}()
}
