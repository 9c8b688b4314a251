package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// entry guarda o valor serializado e o instante de expiração (zero = sem TTL).
type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryClient é uma implementação em memória da interface Client.
// É usada nos testes e em deployments sem Redis (REDIS_ADDR vazio).
// As entradas são compartilhadas por todo o processo, como no Redis.
type MemoryClient struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryClient cria um cache em memória vazio.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{entries: make(map[string]entry)}
}

// Get recupera o valor associado a uma chave. Entrada expirada é removida na
// leitura, para o mapa não acumular lixo em processos de vida longa.
func (c *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if e.expired(time.Now()) {
		c.mu.Lock()
		// Reconfere sob o lock de escrita: a chave pode ter sido regravada
		// entre os dois locks.
		if cur, ok := c.entries[key]; ok && cur.expired(time.Now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", ErrCacheMiss
	}
	return e.value, nil
}

// Set define um valor para uma chave com um tempo de expiração.
// Aceita string ou []byte (os mesmos tipos que gravamos no Redis).
func (c *MemoryClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int:
		s = strconv.Itoa(v)
	default:
		s = fmt.Sprintf("%v", v)
	}

	var exp time.Time
	if expiration > 0 {
		exp = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = entry{value: s, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

// Delete remove uma chave do cache.
func (c *MemoryClient) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// DeletePrefix remove todas as chaves que começam com o prefixo dado.
func (c *MemoryClient) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	return nil
}

// GetInt recupera um contador inteiro (usado pelo rate limiter).
func (c *MemoryClient) GetInt(ctx context.Context, key string) (int, error) {
	s, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// Incr incrementa um contador inteiro, criando-o em 1 se não existir.
// A expiração original da chave é preservada, como no INCR do Redis.
func (c *MemoryClient) Incr(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.expired(time.Now()) {
		c.entries[key] = entry{value: "1"}
		return nil
	}
	n, err := strconv.Atoi(e.value)
	if err != nil {
		return fmt.Errorf("valor de %s não é um contador: %w", key, err)
	}
	e.value = strconv.Itoa(n + 1)
	c.entries[key] = e
	return nil
}
