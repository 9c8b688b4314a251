package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"livraria/config"
	"livraria/internal/pkg/apiclient"
	"livraria/internal/pkg/cache"
	"livraria/internal/pkg/cep"
	"livraria/internal/pkg/logger"
	"livraria/internal/pkg/metrics"
	"livraria/internal/pkg/token"

	// Camadas da Livraria para Injeção de Dependências
	"livraria/internal/api/admin"
	"livraria/internal/api/catalog"
	"livraria/internal/api/router"
	"livraria/internal/api/shopping"
	"livraria/internal/query"
	"livraria/internal/repository/catalogrepo"
	"livraria/internal/repository/orderrepo"
	"livraria/internal/repository/statsrepo"
	"livraria/internal/session"
)

func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço Livraria...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado (ou houver erro de leitura),
		// avisamos, mas continuamos, pois as variáveis essenciais podem
		// estar no ambiente do sistema (ex: Docker).
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig() // Carrega as configurações (URLs, Timeouts, etc.)
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Cache (Redis, ou memória quando REDIS_ADDR está vazio)
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.NewRedisClient(cfg.RedisAddr)
		log.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
	} else {
		cacheClient = cache.NewMemoryClient()
		log.Info("Cache em memória ativo (REDIS_ADDR não definido).", nil)
	}

	// B. Métricas Prometheus (expostas em /metrics)
	m := metrics.New()

	// C. Cliente da API remota (catálogo, pedidos e estatísticas)
	apiClient := apiclient.New(cfg.CatalogAPIURL, cfg.HTTPTimeout, log, m)
	log.Info("Cliente da API remota inicializado.", map[string]interface{}{"base_url": cfg.CatalogAPIURL})

	// D. Cliente de CEP (circuito independente do da API principal)
	cepClient := cep.New(cfg.ViaCEPURL, cfg.HTTPTimeout, log)
	log.Debug("Cliente de CEP inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Query -> Handler

	// A. Repositórios (acesso à API remota)
	catalogRepo := catalogrepo.NewCatalogRepository(apiClient)
	orderRepo := orderrepo.NewOrderRepository(apiClient)
	statsRepo := statsrepo.NewStatsRepository(apiClient)
	log.Debug("Repositórios inicializados.", nil)

	// B. Camada de Query (cache por chave + invalidação)
	productQueries := query.NewProductQueries(catalogRepo, cacheClient, cfg.CacheTTL, m, log)
	orderQueries := query.NewOrderQueries(orderRepo, cacheClient, cfg.CacheTTL, m, log)
	statsQueries := query.NewStatsQueries(statsRepo, cacheClient, cfg.StatsRefresh, m, log)
	log.Debug("Camada de Query inicializada.", nil)

	// O poll de estatísticas roda até o processo encerrar.
	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	statsQueries.StartPolling(pollCtx)

	// C. Sessões (carrinho e checkout por navegador)
	sessions := session.NewManager(log)

	// D. Serviço de Tokens (JWT) — console admin
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// E. Handlers (Camada de Apresentação)
	catalogHandler := catalog.NewHandler(productQueries, log)
	shoppingHandler := shopping.NewHandler(sessions, productQueries, cepClient, orderQueries, log)
	adminHandler := admin.NewHandler(productQueries, orderQueries, statsQueries, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor

	r := router.NewRouter(cfg, catalogHandler, shoppingHandler, adminHandler, tokenSvc, cacheClient)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r, // O roteador final
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor Livraria ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)
	stopPolling()

	// Timeout para desligamento (usa o contexto)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
