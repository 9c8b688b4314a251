package shopping

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"livraria/internal/domain"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/cep"
	"livraria/internal/pkg/logger"
	"livraria/internal/session"
)

// --- Mocks dos colaboradores remotos ---

type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductReader) Get(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Lookup(ctx context.Context, cepDigits string) (cep.Address, error) {
	args := m.Called(ctx, cepDigits)
	return args.Get(0).(cep.Address), args.Error(1)
}

type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) Create(ctx context.Context, payload domain.CreateOrderPayload) (domain.Order, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(domain.Order), args.Error(1)
}

// --- Infraestrutura de teste ---

func newTestHandler(products *MockProductReader, lookup *MockLookup, orders *MockOrderPlacer) *Handler {
	log := logger.NewLogger("error")
	return NewHandler(session.NewManager(log), products, lookup, orders, log)
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("falha ao codificar corpo de teste: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartView {
	t.Helper()
	var view cartView
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func decodeCheckout(t *testing.T, rec *httptest.ResponseRecorder) checkoutView {
	t.Helper()
	var view checkoutView
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

var testProduct = domain.Product{
	ID:      "p1",
	Title:   "Dom Casmurro",
	Author:  "Machado de Assis",
	Price:   49.90,
	InStock: true,
}

// --- Carrinho ---

func TestCartHandler_FirstVisitCreatesSession(t *testing.T) {
	h := newTestHandler(new(MockProductReader), new(MockLookup), new(MockOrderPlacer))

	rec := doJSON(t, h.CartHandler, http.MethodGet, "/v1/carrinho", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(SessionHeader), "a resposta deve devolver o ID da sessão criada")

	view := decodeCart(t, rec)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalItems)
}

func TestCartItemsHandler_AddsProductFromCatalog(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))

	rec := doJSON(t, h.CartItemsHandler, http.MethodPost, "/v1/carrinho/itens", "", map[string]string{"productId": "p1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	view := decodeCart(t, rec)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.TotalItems)
	assert.True(t, view.CartOpen, "adicionar item deve sinalizar a abertura do painel")
	products.AssertExpectations(t)
}

func TestCartItemsHandler_SessionPersistsAcrossRequests(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))

	first := doJSON(t, h.CartItemsHandler, http.MethodPost, "/v1/carrinho/itens", "", map[string]string{"productId": "p1"})
	sessionID := first.Header().Get(SessionHeader)
	assert.NotEmpty(t, sessionID)

	second := doJSON(t, h.CartItemsHandler, http.MethodPost, "/v1/carrinho/itens", sessionID, map[string]string{"productId": "p1"})

	view := decodeCart(t, second)
	assert.Len(t, view.Items, 1, "mesmo produto deve incrementar a linha, não duplicá-la")
	assert.Equal(t, 2, view.TotalItems)
}

func TestCartItemsHandler_ProductNotFound(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "ghost").Return(domain.Product{}, apperror.NewNotFoundError("Produto não encontrado."))
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))

	rec := doJSON(t, h.CartItemsHandler, http.MethodPost, "/v1/carrinho/itens", "", map[string]string{"productId": "ghost"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartItemHandler_UpdateAndRemove(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))

	added := doJSON(t, h.CartItemsHandler, http.MethodPost, "/v1/carrinho/itens", "", map[string]string{"productId": "p1"})
	sessionID := added.Header().Get(SessionHeader)

	updated := doJSON(t, h.CartItemHandler, http.MethodPut, "/v1/carrinho/itens/p1", sessionID, map[string]int{"quantity": 4})
	assert.Equal(t, http.StatusOK, updated.Code)
	assert.Equal(t, 4, decodeCart(t, updated).TotalItems)

	removed := doJSON(t, h.CartItemHandler, http.MethodDelete, "/v1/carrinho/itens/p1", sessionID, nil)
	assert.Equal(t, http.StatusOK, removed.Code)
	assert.Empty(t, decodeCart(t, removed).Items)
}

// --- Checkout ---

// addToCart prepara uma sessão com um item no carrinho e retorna o ID dela.
func addToCart(t *testing.T, h *Handler) string {
	t.Helper()
	rec := doJSON(t, h.CartItemsHandler, http.MethodPost, "/v1/carrinho/itens", "", map[string]string{"productId": "p1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	return rec.Header().Get(SessionHeader)
}

func TestCheckoutHandler_EmptyCartRejected(t *testing.T) {
	h := newTestHandler(new(MockProductReader), new(MockLookup), new(MockOrderPlacer))

	rec := doJSON(t, h.CheckoutHandler, http.MethodPost, "/v1/checkout", "", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutHandler_StartAndRead(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))
	sessionID := addToCart(t, h)

	started := doJSON(t, h.CheckoutHandler, http.MethodPost, "/v1/checkout", sessionID, nil)
	assert.Equal(t, http.StatusCreated, started.Code)
	view := decodeCheckout(t, started)
	assert.Equal(t, 0, view.Step)
	assert.Equal(t, "Endereço", view.StepLabel)
	assert.Equal(t, "card", string(view.Method))

	read := doJSON(t, h.CheckoutHandler, http.MethodGet, "/v1/checkout", sessionID, nil)
	assert.Equal(t, http.StatusOK, read.Code)
}

func TestCheckoutHandler_GetWithoutStartConflicts(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))
	sessionID := addToCart(t, h)

	rec := doJSON(t, h.CheckoutHandler, http.MethodGet, "/v1/checkout", sessionID, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutNextHandler_ValidationFailureKeepsStep(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))
	sessionID := addToCart(t, h)
	doJSON(t, h.CheckoutHandler, http.MethodPost, "/v1/checkout", sessionID, nil)

	rec := doJSON(t, h.CheckoutNextHandler, http.MethodPost, "/v1/checkout/avancar", sessionID, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	view := decodeCheckout(t, rec)
	assert.Equal(t, 0, view.Step, "validação falha: o passo não muda")
	assert.Equal(t, "Este campo é obrigatório", view.Errors["nome"])
}

// fillAddress preenche o endereço mínimo válido via PATCH /v1/checkout/endereco.
func fillAddress(t *testing.T, h *Handler, sessionID string) {
	t.Helper()
	fields := map[string]string{
		"nome":     "João Silva",
		"email":    "joao@exemplo.com",
		"cep":      "01310-100",
		"endereco": "Avenida Paulista",
		"numero":   "1000",
		"bairro":   "Bela Vista",
		"cidade":   "São Paulo",
		"estado":   "SP",
	}
	for field, value := range fields {
		rec := doJSON(t, h.CheckoutAddressHandler, http.MethodPatch, "/v1/checkout/endereco", sessionID, map[string]string{"field": field, "value": value})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCheckoutFlow_PixOrderPlaced(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	lookup := new(MockLookup)
	lookup.On("Lookup", mock.Anything, "01310100").Return(cep.Address{}, apperror.NewNetworkError("CEP indisponível", nil))
	orders := new(MockOrderPlacer)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(p domain.CreateOrderPayload) bool {
		return p.CustomerName == "João Silva" && len(p.Items) == 1 && p.Items[0].Quantity == 1
	})).Return(domain.Order{ID: "order-1"}, nil)

	h := newTestHandler(products, lookup, orders)
	sessionID := addToCart(t, h)
	doJSON(t, h.CheckoutHandler, http.MethodPost, "/v1/checkout", sessionID, nil)

	fillAddress(t, h, sessionID)
	next := doJSON(t, h.CheckoutNextHandler, http.MethodPost, "/v1/checkout/avancar", sessionID, nil)
	assert.Equal(t, 1, decodeCheckout(t, next).Step)

	doJSON(t, h.CheckoutPaymentHandler, http.MethodPatch, "/v1/checkout/pagamento", sessionID, map[string]string{"method": "pix"})
	next = doJSON(t, h.CheckoutNextHandler, http.MethodPost, "/v1/checkout/avancar", sessionID, nil)
	assert.Equal(t, 2, decodeCheckout(t, next).Step)

	confirmed := doJSON(t, h.CheckoutConfirmHandler, http.MethodPost, "/v1/checkout/confirmar", sessionID, nil)
	assert.Equal(t, http.StatusCreated, confirmed.Code)
	view := decodeCheckout(t, confirmed)
	assert.True(t, view.Placed)
	assert.Equal(t, "order-1", view.OrderID)

	// O carrinho da sessão foi esvaziado após a confirmação.
	cartState := doJSON(t, h.CartHandler, http.MethodGet, "/v1/carrinho", sessionID, nil)
	assert.Empty(t, decodeCart(t, cartState).Items)
	orders.AssertExpectations(t)
}

func TestCheckoutConfirmHandler_RemoteFailureIs502AndCartSurvives(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	lookup := new(MockLookup)
	lookup.On("Lookup", mock.Anything, mock.Anything).Return(cep.Address{}, apperror.NewNetworkError("fora do ar", nil))
	orders := new(MockOrderPlacer)
	orders.On("Create", mock.Anything, mock.Anything).Return(domain.Order{}, apperror.NewNetworkError("O serviço está temporariamente indisponível.", nil))

	h := newTestHandler(products, lookup, orders)
	sessionID := addToCart(t, h)
	doJSON(t, h.CheckoutHandler, http.MethodPost, "/v1/checkout", sessionID, nil)
	fillAddress(t, h, sessionID)
	doJSON(t, h.CheckoutNextHandler, http.MethodPost, "/v1/checkout/avancar", sessionID, nil)
	doJSON(t, h.CheckoutPaymentHandler, http.MethodPatch, "/v1/checkout/pagamento", sessionID, map[string]string{"method": "pix"})
	doJSON(t, h.CheckoutNextHandler, http.MethodPost, "/v1/checkout/avancar", sessionID, nil)

	confirmed := doJSON(t, h.CheckoutConfirmHandler, http.MethodPost, "/v1/checkout/confirmar", sessionID, nil)
	assert.Equal(t, http.StatusBadGateway, confirmed.Code)

	// Nada mudou: o carrinho segue intacto e o checkout continua na Confirmação.
	cartState := doJSON(t, h.CartHandler, http.MethodGet, "/v1/carrinho", sessionID, nil)
	assert.Len(t, decodeCart(t, cartState).Items, 1)

	state := doJSON(t, h.CheckoutHandler, http.MethodGet, "/v1/checkout", sessionID, nil)
	view := decodeCheckout(t, state)
	assert.Equal(t, 2, view.Step)
	assert.False(t, view.Placed)
}

func TestCheckoutHandler_DeleteAbandonsWithoutLosingCart(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))
	sessionID := addToCart(t, h)
	doJSON(t, h.CheckoutHandler, http.MethodPost, "/v1/checkout", sessionID, nil)

	abandoned := doJSON(t, h.CheckoutHandler, http.MethodDelete, "/v1/checkout", sessionID, nil)
	assert.Equal(t, http.StatusNoContent, abandoned.Code)

	cartState := doJSON(t, h.CartHandler, http.MethodGet, "/v1/carrinho", sessionID, nil)
	assert.Len(t, decodeCart(t, cartState).Items, 1)
}

func TestCheckoutView_CardNumberIsMasked(t *testing.T) {
	products := new(MockProductReader)
	products.On("Get", mock.Anything, "p1").Return(testProduct, nil)
	h := newTestHandler(products, new(MockLookup), new(MockOrderPlacer))
	sessionID := addToCart(t, h)
	doJSON(t, h.CheckoutHandler, http.MethodPost, "/v1/checkout", sessionID, nil)

	rec := doJSON(t, h.CheckoutPaymentHandler, http.MethodPatch, "/v1/checkout/pagamento", sessionID, map[string]string{"field": "cardNumber", "value": "4111111111111111"})

	view := decodeCheckout(t, rec)
	assert.Equal(t, "**** 1111", view.Card.MaskedNumber)
}
