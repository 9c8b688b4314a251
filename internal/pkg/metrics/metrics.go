package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa os contadores e histogramas expostos em /metrics.
type Metrics struct {
	// Cache da camada de Query
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	// Cliente HTTP (API remota)
	requestDuration *prometheus.HistogramVec

	// Negócio
	ordersPlaced prometheus.Counter
}

// New cria as métricas registradas no registerer padrão do Prometheus.
func New() *Metrics {
	return newWithRegisterer(prometheus.DefaultRegisterer)
}

// NewForTest cria métricas em um registry isolado (evita colisão de registro
// entre testes).
func NewForTest() *Metrics {
	return newWithRegisterer(prometheus.NewRegistry())
}

func newWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livraria_cache_hits_total",
			Help: "Total de leituras servidas pelo cache, por entidade",
		}, []string{"entity"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livraria_cache_misses_total",
			Help: "Total de leituras que precisaram ir à API remota, por entidade",
		}, []string{"entity"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "livraria_remote_request_duration_seconds",
			Help:    "Duração das chamadas à API remota",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livraria_orders_placed_total",
			Help: "Total de pedidos confirmados com sucesso pelo checkout",
		}),
	}

	registerer.MustRegister(m.cacheHits, m.cacheMisses, m.requestDuration, m.ordersPlaced)
	return m
}

// CacheHit registra um acerto de cache para a entidade dada.
func (m *Metrics) CacheHit(entity string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(entity).Inc()
}

// CacheMiss registra um miss de cache para a entidade dada.
func (m *Metrics) CacheMiss(entity string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(entity).Inc()
}

// ObserveRequest registra a duração de uma chamada à API remota.
func (m *Metrics) ObserveRequest(method string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// OrderPlaced registra um pedido confirmado.
func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}
