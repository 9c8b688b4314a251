package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"livraria/internal/cart"
	"livraria/internal/checkout"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/logger"
)

// Session é o estado de uma sessão de navegador: o carrinho (criado vazio no
// início da sessão) e, quando iniciado, o assistente de checkout.
//
// Dentro de uma sessão o modelo é cooperativo e de escritor único: os
// handlers serializam o acesso pelo mutex, então as operações do carrinho e
// do checkout executam de forma síncrona sobre estado que só a sessão possui.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time

	Cart     *cart.Cart
	Checkout *checkout.Wizard

	// cartOpen é o sinal de UI disparado pelo AddItem ("abrir o painel do
	// carrinho"). A UI lê e rearma via ConsumeCartOpen.
	cartOpen bool
}

// Do executa fn com a sessão travada.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// ConsumeCartOpen lê e rearma o sinal de abertura do painel do carrinho.
func (s *Session) ConsumeCartOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	open := s.cartOpen
	s.cartOpen = false
	return open
}

// EndCheckout descarta o assistente (usuário saiu do checkout).
func (s *Session) EndCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Checkout = nil
}

// Manager guarda as sessões ativas do processo. Cada sessão é dona exclusiva
// do seu carrinho — não existe carrinho singleton, então sessões
// independentes coexistem (inclusive em testes).
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      logger.Logger
}

// NewManager cria o gerenciador de sessões.
func NewManager(log logger.Logger) *Manager {
	return &Manager{sessions: make(map[string]*Session), log: log}
}

// Create inicia uma sessão nova com carrinho vazio e retorna seu ID.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	s.Cart = cart.New(func() { s.cartOpen = true })

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Debug("Sessão criada.", map[string]interface{}{"session_id": s.ID})
	return s
}

// Get busca uma sessão existente.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, apperror.NewNotFoundError("Sessão desconhecida ou expirada.")
	}
	return s, nil
}

// GetOrCreate devolve a sessão do ID dado, ou uma nova quando o ID está
// vazio/desconhecido (primeira visita).
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s
		}
	}
	return m.Create()
}

// Destroy remove uma sessão (logout ou expiração).
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
