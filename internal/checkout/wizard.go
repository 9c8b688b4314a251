package checkout

import (
	"context"
	"strings"

	"livraria/internal/cart"
	"livraria/internal/domain"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/cep"
	"livraria/internal/pkg/logger"
)

// Step é o passo atual do assistente de checkout.
type Step int

const (
	StepAddress Step = iota
	StepPayment
	StepConfirmation
)

// String devolve o rótulo exibido no indicador de passos.
func (s Step) String() string {
	switch s {
	case StepAddress:
		return "Endereço"
	case StepPayment:
		return "Pagamento"
	case StepConfirmation:
		return "Confirmação"
	}
	return "?"
}

// AddressLookup é o porto para o serviço de resolução de endereço por CEP.
// Falhas são degradação silenciosa: o preenchimento automático é um
// aprimoramento, não uma dependência do checkout.
type AddressLookup interface {
	Lookup(ctx context.Context, cepDigits string) (cep.Address, error)
}

// OrderPlacer é o porto para a operação de criação de pedido da camada de
// Query (que cuida da invalidação de cache no sucesso).
type OrderPlacer interface {
	Create(ctx context.Context, payload domain.CreateOrderPayload) (domain.Order, error)
}

// Wizard é a máquina de estados do checkout:
//
//	Endereço (0) → Pagamento (1) → Confirmação (2) → Pedido realizado (terminal)
//
// Transições para trás são permitidas e preservam os dados digitados; apenas
// o mapa de erros é limpo. Depois de realizado o pedido, toda mutação de
// formulário vira no-op.
type Wizard struct {
	cart   *cart.Cart
	step   Step
	placed bool

	address AddressForm
	method  PaymentMethod
	card    CardForm
	errors  map[string]string

	order domain.Order // preenchido no sucesso do Confirm

	lookup AddressLookup
	orders OrderPlacer
	log    logger.Logger
}

// NewWizard inicia uma sessão de checkout sobre o carrinho dado.
// Checkout sobre carrinho vazio é um estado inválido: o assistente não pode
// nem ser criado.
func NewWizard(c *cart.Cart, lookup AddressLookup, orders OrderPlacer, log logger.Logger) (*Wizard, error) {
	if c == nil || c.IsEmpty() {
		return nil, apperror.NewConflictError("O carrinho está vazio — não há o que finalizar.")
	}
	return &Wizard{
		cart:   c,
		step:   StepAddress,
		method: MethodCard, // pré-seleção da UI original
		errors: map[string]string{},
		lookup: lookup,
		orders: orders,
		log:    log,
	}, nil
}

// --- Leitura de estado ---

// Step retorna o passo atual.
func (w *Wizard) Step() Step { return w.step }

// Placed responde se o pedido já foi realizado (estado terminal).
func (w *Wizard) Placed() bool { return w.placed }

// Order retorna o pedido criado (válido somente após Placed).
func (w *Wizard) Order() domain.Order { return w.order }

// Address retorna uma cópia do formulário de endereço.
func (w *Wizard) Address() AddressForm { return w.address }

// Method retorna o método de pagamento selecionado.
func (w *Wizard) Method() PaymentMethod { return w.method }

// Card retorna uma cópia do formulário de cartão.
func (w *Wizard) Card() CardForm { return w.card }

// Errors retorna uma cópia do mapa de erros de campo.
func (w *Wizard) Errors() map[string]string {
	out := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// Summary calcula o resumo de preços pela regra de frete compartilhada.
func (w *Wizard) Summary() cart.Summary { return w.cart.Summarize() }

// --- Mutação de formulário ---

// SetAddressField grava um campo do endereço e limpa o erro daquele campo.
// O CEP tem setter próprio (SetCEP) por causa do preenchimento automático.
func (w *Wizard) SetAddressField(field, value string) {
	if w.placed {
		return
	}
	switch field {
	case FieldNome:
		w.address.Nome = value
	case FieldEmail:
		w.address.Email = value
	case FieldEndereco:
		w.address.Endereco = value
	case FieldNumero:
		w.address.Numero = value
	case FieldComplemento:
		w.address.Complemento = value
	case FieldBairro:
		w.address.Bairro = value
	case FieldCidade:
		w.address.Cidade = value
	case FieldEstado:
		w.address.Estado = strings.ToUpper(value)
	default:
		return
	}
	delete(w.errors, field)
}

// SetCEP grava o CEP com a máscara 00000-000 e, quando os 8 dígitos se
// completam, dispara a consulta ao serviço de endereços.
//
// O preenchimento automático só escreve em campo EM BRANCO: entrada do
// usuário nunca é sobrescrita. Essa regra também torna respostas atrasadas
// ou fora de ordem inofensivas — uma resposta velha não tem efeito sobre
// campos já preenchidos, então nenhum cancelamento é necessário.
func (w *Wizard) SetCEP(ctx context.Context, value string) {
	if w.placed {
		return
	}
	w.address.CEP = formatCEP(value)
	delete(w.errors, FieldCEP)

	digits := onlyDigits(w.address.CEP)
	if len(digits) != 8 || w.lookup == nil {
		return
	}

	resolved, err := w.lookup.Lookup(ctx, digits)
	if err != nil {
		// Degradação silenciosa: nenhum erro chega à UI, o formulário fica
		// como está.
		if w.log != nil {
			w.log.Warn("Consulta de CEP falhou; formulário mantido.", map[string]interface{}{"cep": digits, "error": err.Error()})
		}
		return
	}

	w.fillBlank(FieldEndereco, &w.address.Endereco, resolved.Street)
	w.fillBlank(FieldBairro, &w.address.Bairro, resolved.Neighborhood)
	w.fillBlank(FieldCidade, &w.address.Cidade, resolved.City)
	w.fillBlank(FieldEstado, &w.address.Estado, resolved.State)
}

// fillBlank preenche o campo somente se estiver em branco, limpando o erro
// correspondente quando preenche.
func (w *Wizard) fillBlank(field string, dst *string, value string) {
	if strings.TrimSpace(*dst) != "" || value == "" {
		return
	}
	*dst = value
	delete(w.errors, field)
}

// SetPaymentMethod troca o método de pagamento e limpa os erros anteriores
// de pagamento.
func (w *Wizard) SetPaymentMethod(method PaymentMethod) {
	if w.placed {
		return
	}
	if method != MethodCard && method != MethodPix {
		return
	}
	w.method = method
	w.errors = map[string]string{}
}

// SetCardField grava um campo do cartão já normalizado e limpa o erro
// daquele campo.
func (w *Wizard) SetCardField(field, value string) {
	if w.placed {
		return
	}
	switch field {
	case FieldCardNumber:
		w.card.CardNumber = formatCardNumber(value)
	case FieldExpiry:
		w.card.Expiry = formatExpiry(value)
	case FieldCVV:
		w.card.CVV = formatCVV(value)
	case FieldCardName:
		w.card.CardName = strings.ToUpper(value)
	default:
		return
	}
	delete(w.errors, field)
}

// --- Transições ---

// Next valida SOMENTE o passo atual: no sucesso limpa os erros e avança um
// estado; na falha permanece onde está e expõe os erros de campo — nunca há
// avanço parcial. Retorna true quando avançou.
func (w *Wizard) Next() bool {
	if w.placed || w.step == StepConfirmation {
		return false
	}

	var errs map[string]string
	switch w.step {
	case StepAddress:
		errs = validateAddress(w.address)
	case StepPayment:
		errs = validatePayment(w.method, w.card)
	}

	if len(errs) > 0 {
		w.errors = errs
		return false
	}

	w.errors = map[string]string{}
	w.step++
	return true
}

// Back regride um passo. Sempre permitido a partir de Pagamento ou
// Confirmação; nenhuma validação é exigida para voltar e os dados digitados
// são preservados — só o mapa de erros é limpo.
func (w *Wizard) Back() {
	if w.placed || w.step == StepAddress {
		return
	}
	w.errors = map[string]string{}
	w.step--
}

// Confirm submete o pedido (identidade do cliente + itens do carrinho) pela
// camada de Query. Só é alcançável a partir da Confirmação.
//
// No sucesso: o carrinho é limpo e o assistente vai ao estado terminal.
// Na falha: NADA muda — o carrinho permanece intacto, a sessão continua na
// Confirmação e o erro sobe para o chamador exibir (sem retry automático).
func (w *Wizard) Confirm(ctx context.Context) (domain.Order, error) {
	if w.placed {
		return domain.Order{}, apperror.NewConflictError("O pedido desta sessão já foi realizado.")
	}
	if w.step != StepConfirmation {
		return domain.Order{}, apperror.NewConflictError("Confirmação só é possível no passo final do checkout.")
	}

	lines := w.cart.Lines()
	items := make([]domain.CreateOrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.CreateOrderItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}

	payload := domain.CreateOrderPayload{
		CustomerName:  w.address.Nome,
		CustomerEmail: w.address.Email,
		Items:         items,
	}

	order, err := w.orders.Create(ctx, payload)
	if err != nil {
		return domain.Order{}, err
	}

	w.cart.Clear()
	w.order = order
	w.placed = true
	if w.log != nil {
		w.log.Info("Pedido confirmado.", map[string]interface{}{"order_id": order.ID})
	}
	return order, nil
}
