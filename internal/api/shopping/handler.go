package shopping

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"livraria/internal/cart"
	"livraria/internal/checkout"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/logger"
	"livraria/internal/session"

	"livraria/internal/api/catalog"
)

// SessionHeader é o header que identifica a sessão do navegador. Toda resposta
// devolve o header com o ID vigente para o cliente persistir.
const SessionHeader = "X-Session-ID"

// Handler agrupa os endpoints de carrinho e checkout. O estado mora na
// sessão; os colaboradores remotos (catálogo, CEP, pedidos) entram pelos
// portos do assistente.
type Handler struct {
	Sessions *session.Manager
	Products catalog.ProductReader
	Lookup   checkout.AddressLookup
	Orders   checkout.OrderPlacer
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler com suas dependências.
func NewHandler(sessions *session.Manager, products catalog.ProductReader, lookup checkout.AddressLookup, orders checkout.OrderPlacer, log logger.Logger) *Handler {
	return &Handler{
		Sessions: sessions,
		Products: products,
		Lookup:   lookup,
		Orders:   orders,
		Logger:   log,
	}
}

// --- Views (formato de resposta) ---

type cartView struct {
	SessionID  string       `json:"sessionId"`
	Items      []cart.Line  `json:"items"`
	TotalItems int          `json:"totalItems"`
	Summary    cart.Summary `json:"summary"`
	CartOpen   bool         `json:"cartOpen"`
}

type checkoutView struct {
	Step      int                    `json:"step"`
	StepLabel string                 `json:"stepLabel"`
	Placed    bool                   `json:"placed"`
	Address   checkout.AddressForm   `json:"address"`
	Method    checkout.PaymentMethod `json:"paymentMethod"`
	Card      cardView               `json:"card"`
	Errors    map[string]string      `json:"errors"`
	Summary   cart.Summary           `json:"summary"`
	OrderID   string                 `json:"orderId,omitempty"`
}

// cardView expõe o cartão de forma segura: número mascarado, CVV nunca sai.
type cardView struct {
	MaskedNumber string `json:"maskedNumber"`
	Expiry       string `json:"expiry"`
	CardName     string `json:"cardName"`
}

func maskCardNumber(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < 4 {
		return ""
	}
	return "**** " + digits[len(digits)-4:]
}

// snapshotCart monta a view do carrinho sob o lock da sessão e consome o
// sinal de abertura do painel em seguida.
func snapshotCart(s *session.Session) cartView {
	var view cartView
	s.Do(func() {
		view = cartView{
			SessionID:  s.ID,
			Items:      s.Cart.Lines(),
			TotalItems: s.Cart.TotalItems(),
			Summary:    s.Cart.Summarize(),
		}
	})
	view.CartOpen = s.ConsumeCartOpen()
	return view
}

func newCheckoutView(w *checkout.Wizard) checkoutView {
	card := w.Card()
	view := checkoutView{
		Step:      int(w.Step()),
		StepLabel: w.Step().String(),
		Placed:    w.Placed(),
		Address:   w.Address(),
		Method:    w.Method(),
		Card: cardView{
			MaskedNumber: maskCardNumber(card.CardNumber),
			Expiry:       card.Expiry,
			CardName:     card.CardName,
		},
		Errors:  w.Errors(),
		Summary: w.Summary(),
	}
	if w.Placed() {
		view.OrderID = w.Order().ID
	}
	return view
}

// --- Infraestrutura de resposta ---

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	})
}

// resolveSession busca (ou cria) a sessão do header e já devolve o ID no
// header de resposta, para o cliente guardar no primeiro contato.
func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request) *session.Session {
	s := h.Sessions.GetOrCreate(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, s.ID)
	return s
}

// requireCheckout devolve o assistente ativo da sessão, ou erro 409 quando o
// checkout não foi iniciado.
func requireCheckout(s *session.Session) (*checkout.Wizard, error) {
	if s.Checkout == nil {
		return nil, apperror.NewConflictError("Nenhum checkout em andamento nesta sessão.")
	}
	return s.Checkout, nil
}

// --- Carrinho ---

// CartHandler lida com GET /v1/carrinho: o estado atual do carrinho.
func (h *Handler) CartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	s := h.resolveSession(w, r)
	h.handleServiceResponse(w, r, snapshotCart(s), nil, http.StatusOK)
}

// CartItemsHandler lida com POST /v1/carrinho/itens: adiciona UMA unidade do
// produto (o produto vem do catálogo via camada de Query, nunca do corpo).
func (h *Handler) CartItemsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ProductID == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo inválido: informe productId."), 0)
		return
	}

	product, err := h.Products.Get(r.Context(), input.ProductID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	s := h.resolveSession(w, r)
	var addErr error
	s.Do(func() {
		addErr = s.Cart.AddItem(product)
	})
	if addErr != nil {
		h.handleServiceResponse(w, r, nil, addErr, 0)
		return
	}

	h.handleServiceResponse(w, r, snapshotCart(s), nil, http.StatusCreated)
}

// CartItemHandler lida com PUT e DELETE em /v1/carrinho/itens/{id}.
// PUT substitui a quantidade (<= 0 remove); DELETE apaga a linha.
func (h *Handler) CartItemHandler(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimPrefix(r.URL.Path, "/v1/carrinho/itens/")
	if productID == "" || strings.Contains(productID, "/") {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("ID de produto inválido."), 0)
		return
	}

	s := h.resolveSession(w, r)

	switch r.Method {
	case http.MethodPut:
		var input struct {
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo inválido: informe quantity."), 0)
			return
		}
		s.Do(func() {
			s.Cart.UpdateQuantity(productID, input.Quantity)
		})

	case http.MethodDelete:
		s.Do(func() {
			s.Cart.RemoveItem(productID)
		})

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	h.handleServiceResponse(w, r, snapshotCart(s), nil, http.StatusOK)
}

// --- Checkout ---

// CheckoutHandler lida com POST, GET e DELETE em /v1/checkout.
// POST inicia o assistente (409 com carrinho vazio), GET devolve o estado,
// DELETE abandona o checkout sem perder o carrinho.
func (h *Handler) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)

	switch r.Method {
	case http.MethodPost:
		var wiz *checkout.Wizard
		var err error
		s.Do(func() {
			if s.Checkout != nil && !s.Checkout.Placed() {
				// Checkout já aberto: devolvemos o estado atual em vez de
				// reiniciar e perder o que o usuário digitou.
				wiz = s.Checkout
				return
			}
			wiz, err = checkout.NewWizard(s.Cart, h.Lookup, h.Orders, h.Logger)
			if err == nil {
				s.Checkout = wiz
			}
		})
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, 0)
			return
		}
		h.handleServiceResponse(w, r, newCheckoutView(wiz), nil, http.StatusCreated)

	case http.MethodGet:
		var view checkoutView
		var err error
		s.Do(func() {
			var wiz *checkout.Wizard
			wiz, err = requireCheckout(s)
			if err == nil {
				view = newCheckoutView(wiz)
			}
		})
		h.handleServiceResponse(w, r, view, err, http.StatusOK)

	case http.MethodDelete:
		s.EndCheckout()
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// CheckoutAddressHandler lida com PATCH /v1/checkout/endereco: grava um campo
// do formulário de endereço. O campo "cep" aplica a máscara e pode disparar o
// preenchimento automático.
func (h *Handler) CheckoutAddressHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Field == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo inválido: informe field e value."), 0)
		return
	}

	s := h.resolveSession(w, r)
	var view checkoutView
	var err error
	s.Do(func() {
		var wiz *checkout.Wizard
		wiz, err = requireCheckout(s)
		if err != nil {
			return
		}
		if input.Field == checkout.FieldCEP {
			wiz.SetCEP(r.Context(), input.Value)
		} else {
			wiz.SetAddressField(input.Field, input.Value)
		}
		view = newCheckoutView(wiz)
	})
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// CheckoutPaymentHandler lida com PATCH /v1/checkout/pagamento: troca o
// método ("card"/"pix") e/ou grava um campo do cartão (já normalizado).
func (h *Handler) CheckoutPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Method string `json:"method"`
		Field  string `json:"field"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || (input.Method == "" && input.Field == "") {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo inválido: informe method ou field/value."), 0)
		return
	}

	s := h.resolveSession(w, r)
	var view checkoutView
	var err error
	s.Do(func() {
		var wiz *checkout.Wizard
		wiz, err = requireCheckout(s)
		if err != nil {
			return
		}
		if input.Method != "" {
			wiz.SetPaymentMethod(checkout.PaymentMethod(input.Method))
		}
		if input.Field != "" {
			wiz.SetCardField(input.Field, input.Value)
		}
		view = newCheckoutView(wiz)
	})
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// CheckoutNextHandler lida com POST /v1/checkout/avancar: valida o passo
// atual e avança. A resposta sempre traz o estado resultante — quando a
// validação falha, o passo não muda e os erros de campo vêm preenchidos.
func (h *Handler) CheckoutNextHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	s := h.resolveSession(w, r)
	var view checkoutView
	var err error
	s.Do(func() {
		var wiz *checkout.Wizard
		wiz, err = requireCheckout(s)
		if err != nil {
			return
		}
		wiz.Next()
		view = newCheckoutView(wiz)
	})
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// CheckoutBackHandler lida com POST /v1/checkout/voltar: regride um passo
// preservando os dados digitados.
func (h *Handler) CheckoutBackHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	s := h.resolveSession(w, r)
	var view checkoutView
	var err error
	s.Do(func() {
		var wiz *checkout.Wizard
		wiz, err = requireCheckout(s)
		if err != nil {
			return
		}
		wiz.Back()
		view = newCheckoutView(wiz)
	})
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// CheckoutConfirmHandler lida com POST /v1/checkout/confirmar: submete o
// pedido. Na falha de rede nada muda (o carrinho segue intacto e a sessão
// permanece na Confirmação) e o erro sobe como 502.
func (h *Handler) CheckoutConfirmHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	s := h.resolveSession(w, r)
	var view checkoutView
	var err error
	s.Do(func() {
		var wiz *checkout.Wizard
		wiz, err = requireCheckout(s)
		if err != nil {
			return
		}
		if _, confirmErr := wiz.Confirm(r.Context()); confirmErr != nil {
			err = confirmErr
			return
		}
		view = newCheckoutView(wiz)
	})
	h.handleServiceResponse(w, r, view, err, http.StatusCreated)
}
