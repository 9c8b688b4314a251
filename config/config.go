package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações da Livraria.
// Todos os campos são definidos com base nos requisitos do projeto
// (API remota de catálogo/pedidos, Cache, Segurança, Robustez).
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// API remota (catálogo, pedidos e estatísticas — o sistema de registro)
	CatalogAPIURL string
	HTTPTimeout   time.Duration

	// Serviço de consulta de CEP (ViaCEP ou compatível)
	ViaCEPURL string

	// Cache (Redis). Se RedisAddr estiver vazio, usamos o cache em memória.
	RedisAddr string
	CacheTTL  time.Duration

	// Estatísticas: intervalo de atualização periódica (poll fixo)
	StatsRefresh time.Duration

	// Segurança (JWT) — apenas para o console administrativo
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. API remota
		// mustGetEnv garante que a aplicação não inicie sem saber onde está o backend.
		CatalogAPIURL: mustGetEnv("CATALOG_API_URL"),
		HTTPTimeout:   getDurationEnv("HTTP_TIMEOUT_SEC", 10) * time.Second,

		// 3. Consulta de CEP (falhas aqui nunca bloqueiam o checkout)
		ViaCEPURL: getEnv("VIACEP_URL", "https://viacep.com.br"),

		// 4. Cache
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 300) * time.Second, // 5 min padrão

		// 5. Estatísticas (o frontend original atualizava a cada 30 segundos)
		StatsRefresh: getDurationEnv("STATS_REFRESH_SEC", 30) * time.Second,

		// 6. Segurança (JWT)
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		// 7. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
