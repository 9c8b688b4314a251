package query

import (
	"context"
	"encoding/json"
	"time"

	"livraria/internal/pkg/cache"
	"livraria/internal/pkg/metrics"
)

// fetchThrough implementa a estratégia Cache-Aside das leituras:
// tenta o cache; no miss, executa a busca remota e grava o resultado sob a
// chave antes de retorná-lo. Falhas do cache nunca falham a leitura — no
// pior caso viram um round trip extra.
func fetchThrough[T any](
	ctx context.Context,
	c cache.Client,
	m *metrics.Metrics,
	entity string,
	key string,
	ttl time.Duration,
	fetch func(context.Context) (T, error),
) (T, error) {
	var zero T

	// 1. Tentar obter do cache
	if cached, err := c.Get(ctx, key); err == nil {
		var value T
		if json.Unmarshal([]byte(cached), &value) == nil {
			// Cache HIT
			m.CacheHit(entity)
			return value, nil
		}
		// Se a desserialização falhar, seguimos para a busca remota.
	}

	// 2. Cache MISS: buscar no sistema de registro (API remota)
	m.CacheMiss(entity)
	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	// 3. Popular o cache para futuras leituras com os mesmos parâmetros
	if data, marshalErr := json.Marshal(value); marshalErr == nil {
		_ = c.Set(ctx, key, data, ttl)
	}

	return value, nil
}

// seed grava um registro fresco diretamente sob uma chave de detalhe.
// Usado pelas mutações de update, que já recebem o registro atualizado na
// resposta — evita um round trip redundante na próxima leitura.
func seed(ctx context.Context, c cache.Client, key string, value interface{}, ttl time.Duration) {
	if data, err := json.Marshal(value); err == nil {
		_ = c.Set(ctx, key, data, ttl)
	}
}
