package checkout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"livraria/internal/cart"
	"livraria/internal/checkout"
	"livraria/internal/domain"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/cep"
	"livraria/internal/pkg/logger"
)

// MockLookup é uma implementação mock da interface AddressLookup.
type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Lookup(ctx context.Context, cepDigits string) (cep.Address, error) {
	args := m.Called(ctx, cepDigits)
	return args.Get(0).(cep.Address), args.Error(1)
}

// MockOrderPlacer é uma implementação mock da interface OrderPlacer.
type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) Create(ctx context.Context, payload domain.CreateOrderPayload) (domain.Order, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(domain.Order), args.Error(1)
}

func cartComLivro() *cart.Cart {
	c := cart.New(nil)
	_ = c.AddItem(domain.Product{ID: "1", Title: "Deep Learning na Prática", Price: 64.90, InStock: true})
	return c
}

func novoWizard(t *testing.T, c *cart.Cart, lookup checkout.AddressLookup, orders checkout.OrderPlacer) *checkout.Wizard {
	t.Helper()
	w, err := checkout.NewWizard(c, lookup, orders, logger.NewLogger("error"))
	require.NoError(t, err)
	return w
}

// preencheEndereco deixa o formulário de endereço válido.
func preencheEndereco(ctx context.Context, w *checkout.Wizard) {
	w.SetAddressField(checkout.FieldNome, "João Silva")
	w.SetAddressField(checkout.FieldEmail, "joao@email.com")
	w.SetCEP(ctx, "01310-100")
	w.SetAddressField(checkout.FieldEndereco, "Avenida Paulista")
	w.SetAddressField(checkout.FieldNumero, "1000")
	w.SetAddressField(checkout.FieldCidade, "São Paulo")
	w.SetAddressField(checkout.FieldEstado, "sp")
}

// TestNewWizard_CarrinhoVazioBloqueado: o checkout não é iniciável sobre
// carrinho vazio.
func TestNewWizard_CarrinhoVazioBloqueado(t *testing.T) {
	_, err := checkout.NewWizard(cart.New(nil), nil, nil, logger.NewLogger("error"))
	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
}

// TestValidateAddress_Email aceita a@b.com e rejeita not-an-email.
func TestValidateAddress_Email(t *testing.T) {
	ctx := context.Background()
	w := novoWizard(t, cartComLivro(), nil, nil)
	preencheEndereco(ctx, w)

	w.SetAddressField(checkout.FieldEmail, "not-an-email")
	assert.False(t, w.Next())
	assert.Equal(t, checkout.StepAddress, w.Step())
	assert.Equal(t, "E-mail inválido", w.Errors()[checkout.FieldEmail])

	w.SetAddressField(checkout.FieldEmail, "a@b.com")
	assert.True(t, w.Next())
	assert.Equal(t, checkout.StepPayment, w.Step())
}

// TestValidateAddress_CEP rejeita "1234" e aceita "01310-100" (8 dígitos
// após remover a máscara).
func TestValidateAddress_CEP(t *testing.T) {
	ctx := context.Background()
	w := novoWizard(t, cartComLivro(), nil, nil)
	preencheEndereco(ctx, w)

	w.SetCEP(ctx, "1234")
	assert.False(t, w.Next())
	assert.Equal(t, "CEP inválido", w.Errors()[checkout.FieldCEP])

	w.SetCEP(ctx, "01310-100")
	assert.True(t, w.Next())
}

// TestValidateAddress_Obrigatorios: campos em branco aparecem no mapa de
// erros e o avanço é bloqueado sem avanço parcial.
func TestValidateAddress_Obrigatorios(t *testing.T) {
	w := novoWizard(t, cartComLivro(), nil, nil)

	assert.False(t, w.Next())
	errs := w.Errors()
	for _, field := range []string{
		checkout.FieldNome, checkout.FieldEmail, checkout.FieldCEP,
		checkout.FieldEndereco, checkout.FieldNumero, checkout.FieldCidade, checkout.FieldEstado,
	} {
		assert.Equal(t, "Este campo é obrigatório", errs[field], "campo %s", field)
	}
	// complemento e bairro são opcionais
	assert.NotContains(t, errs, checkout.FieldComplemento)
	assert.NotContains(t, errs, checkout.FieldBairro)
}

// TestAutoFill_PreencheSomenteCamposEmBranco: o cenário do spec — a consulta
// retorna "São Paulo", mas o usuário já digitou "SP Capital"; o valor do
// usuário permanece.
func TestAutoFill_PreencheSomenteCamposEmBranco(t *testing.T) {
	ctx := context.Background()
	lookup := new(MockLookup)
	lookup.On("Lookup", mock.Anything, "01310100").Return(cep.Address{
		Street:       "Avenida Paulista",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	}, nil)

	w := novoWizard(t, cartComLivro(), lookup, nil)
	w.SetAddressField(checkout.FieldCidade, "SP Capital")

	w.SetCEP(ctx, "01310100")

	addr := w.Address()
	assert.Equal(t, "SP Capital", addr.Cidade) // sem sobrescrita
	assert.Equal(t, "Avenida Paulista", addr.Endereco)
	assert.Equal(t, "Bela Vista", addr.Bairro)
	assert.Equal(t, "SP", addr.Estado)
	assert.Equal(t, "01310-100", addr.CEP)
	lookup.AssertExpectations(t)
}

// TestAutoFill_FalhaSilenciosa: a falha da consulta não surge erro algum e o
// formulário fica como está.
func TestAutoFill_FalhaSilenciosa(t *testing.T) {
	ctx := context.Background()
	lookup := new(MockLookup)
	lookup.On("Lookup", mock.Anything, "99999999").
		Return(cep.Address{}, apperror.NewNetworkError("viacep fora do ar", nil))

	w := novoWizard(t, cartComLivro(), lookup, nil)
	w.SetCEP(ctx, "99999-999")

	assert.Empty(t, w.Errors())
	assert.Equal(t, "", w.Address().Endereco)
	assert.Equal(t, "99999-999", w.Address().CEP)
}

// TestAutoFill_NaoDisparaComCEPIncompleto: menos de 8 dígitos não consulta.
func TestAutoFill_NaoDisparaComCEPIncompleto(t *testing.T) {
	lookup := new(MockLookup)
	w := novoWizard(t, cartComLivro(), lookup, nil)

	w.SetCEP(context.Background(), "0131")

	lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

// TestValidatePayment_Cartao valida os quatro campos e os comprimentos.
func TestValidatePayment_Cartao(t *testing.T) {
	ctx := context.Background()
	w := novoWizard(t, cartComLivro(), nil, nil)
	preencheEndereco(ctx, w)
	require.True(t, w.Next())

	// Tudo em branco: quatro obrigatórios
	assert.False(t, w.Next())
	assert.Len(t, w.Errors(), 4)

	w.SetCardField(checkout.FieldCardNumber, "4111 1111")
	w.SetCardField(checkout.FieldExpiry, "12/27")
	w.SetCardField(checkout.FieldCVV, "12")
	w.SetCardField(checkout.FieldCardName, "João Silva")

	assert.False(t, w.Next())
	errs := w.Errors()
	assert.Equal(t, "Número do cartão inválido", errs[checkout.FieldCardNumber])
	assert.Equal(t, "CVV inválido", errs[checkout.FieldCVV])

	w.SetCardField(checkout.FieldCardNumber, "4111 1111 1111 1111")
	w.SetCardField(checkout.FieldCVV, "123")
	assert.True(t, w.Next())
	assert.Equal(t, checkout.StepConfirmation, w.Step())
}

// TestValidatePayment_PixSempreValido: com pix nenhum campo é exigido e a
// troca de método limpa os erros anteriores.
func TestValidatePayment_PixSempreValido(t *testing.T) {
	ctx := context.Background()
	w := novoWizard(t, cartComLivro(), nil, nil)
	preencheEndereco(ctx, w)
	require.True(t, w.Next())

	assert.False(t, w.Next()) // cartão em branco falha
	assert.NotEmpty(t, w.Errors())

	w.SetPaymentMethod(checkout.MethodPix)
	assert.Empty(t, w.Errors())
	assert.True(t, w.Next())
	assert.Equal(t, checkout.StepConfirmation, w.Step())
}

// TestBack_PreservaDados: voltar é sempre permitido e não descarta o que já
// foi digitado; só o mapa de erros é limpo.
func TestBack_PreservaDados(t *testing.T) {
	ctx := context.Background()
	w := novoWizard(t, cartComLivro(), nil, nil)
	preencheEndereco(ctx, w)
	require.True(t, w.Next())
	w.SetPaymentMethod(checkout.MethodPix)
	require.True(t, w.Next())

	w.Back()
	assert.Equal(t, checkout.StepPayment, w.Step())
	w.Back()
	assert.Equal(t, checkout.StepAddress, w.Step())
	w.Back() // no-op no primeiro passo
	assert.Equal(t, checkout.StepAddress, w.Step())

	assert.Equal(t, "João Silva", w.Address().Nome)
	assert.Equal(t, checkout.MethodPix, w.Method())
}

// TestConfirm_SucessoLimpaCarrinho: o caminho feliz completo — o pedido sai
// pela camada de Query, o carrinho é limpo e o estado vira terminal.
func TestConfirm_SucessoLimpaCarrinho(t *testing.T) {
	ctx := context.Background()
	c := cartComLivro()
	orders := new(MockOrderPlacer)
	expected := domain.CreateOrderPayload{
		CustomerName:  "João Silva",
		CustomerEmail: "joao@email.com",
		Items:         []domain.CreateOrderItem{{ProductID: "1", Quantity: 1}},
	}
	orders.On("Create", mock.Anything, expected).
		Return(domain.Order{ID: "ped-1", Status: domain.StatusProcessando, Total: 79.80}, nil)

	w := novoWizard(t, c, nil, orders)
	preencheEndereco(ctx, w)
	require.True(t, w.Next())
	w.SetPaymentMethod(checkout.MethodPix)
	require.True(t, w.Next())

	order, err := w.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ped-1", order.ID)
	assert.True(t, w.Placed())
	assert.True(t, c.IsEmpty())
	orders.AssertExpectations(t)
}

// TestConfirm_FalhaDeRedePreservaTudo: o cenário do spec — a criação falha
// com erro de rede, o carrinho NÃO é limpo, o assistente permanece na
// Confirmação e o erro sobe para o chamador.
func TestConfirm_FalhaDeRedePreservaTudo(t *testing.T) {
	ctx := context.Background()
	c := cartComLivro()
	orders := new(MockOrderPlacer)
	orders.On("Create", mock.Anything, mock.Anything).
		Return(domain.Order{}, apperror.NewNetworkError("backend fora do ar", nil))

	w := novoWizard(t, c, nil, orders)
	preencheEndereco(ctx, w)
	require.True(t, w.Next())
	w.SetPaymentMethod(checkout.MethodPix)
	require.True(t, w.Next())

	_, err := w.Confirm(ctx)
	require.Error(t, err)
	assert.IsType(t, &apperror.NetworkError{}, err)

	assert.False(t, w.Placed())
	assert.Equal(t, checkout.StepConfirmation, w.Step())
	assert.False(t, c.IsEmpty()) // pedido é tudo-ou-nada para o carrinho
}

// TestConfirm_InalcancavelForaDaConfirmacao: Placed é inalcançável a partir
// do Endereço sem passar por uma validação de pagamento bem-sucedida.
func TestConfirm_InalcancavelForaDaConfirmacao(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	w := novoWizard(t, cartComLivro(), nil, orders)

	_, err := w.Confirm(ctx)
	assert.Error(t, err)
	assert.False(t, w.Placed())

	// Mesmo com endereço válido, ainda falta o passo de pagamento.
	preencheEndereco(ctx, w)
	require.True(t, w.Next())
	_, err = w.Confirm(ctx)
	assert.Error(t, err)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestPlaced_MutacoesViramNoOp: após o estado terminal, nenhum setter nem
// transição tem efeito.
func TestPlaced_MutacoesViramNoOp(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	orders.On("Create", mock.Anything, mock.Anything).Return(domain.Order{ID: "ped-1"}, nil)

	w := novoWizard(t, cartComLivro(), nil, orders)
	preencheEndereco(ctx, w)
	require.True(t, w.Next())
	w.SetPaymentMethod(checkout.MethodPix)
	require.True(t, w.Next())
	_, err := w.Confirm(ctx)
	require.NoError(t, err)

	w.SetAddressField(checkout.FieldNome, "Outro Nome")
	w.SetPaymentMethod(checkout.MethodCard)
	w.Back()

	assert.Equal(t, "João Silva", w.Address().Nome)
	assert.Equal(t, checkout.MethodPix, w.Method())
	assert.Equal(t, checkout.StepConfirmation, w.Step())

	_, err = w.Confirm(ctx)
	assert.Error(t, err) // segundo confirm é rejeitado
}

// TestNormalizacaoDosCampos cobre as máscaras de entrada da UI original.
func TestNormalizacaoDosCampos(t *testing.T) {
	ctx := context.Background()
	w := novoWizard(t, cartComLivro(), nil, nil)

	w.SetCEP(ctx, "01310100xyz")
	assert.Equal(t, "01310-100", w.Address().CEP)

	w.SetCardField(checkout.FieldCardNumber, "4111-1111-1111-1111-999")
	assert.Equal(t, "4111 1111 1111 1111", w.Card().CardNumber)

	w.SetCardField(checkout.FieldExpiry, "1227")
	assert.Equal(t, "12/27", w.Card().Expiry)

	w.SetCardField(checkout.FieldCVV, "12345")
	assert.Equal(t, "1234", w.Card().CVV)

	w.SetCardField(checkout.FieldCardName, "João Silva")
	assert.Equal(t, "JOÃO SILVA", w.Card().CardName)

	w.SetAddressField(checkout.FieldEstado, "sp")
	assert.Equal(t, "SP", w.Address().Estado)
}
