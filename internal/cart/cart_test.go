package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"livraria/internal/cart"
	"livraria/internal/domain"
)

func produto(id string, price float64) domain.Product {
	return domain.Product{ID: id, Title: "Livro " + id, Price: price, InStock: true}
}

// TestAddItem_IncrementaSemDuplicar: adicionar um produto já presente
// incrementa a quantidade em exatamente 1 e não cria linha duplicada.
func TestAddItem_IncrementaSemDuplicar(t *testing.T) {
	c := cart.New(nil)
	p := produto("1", 89.90)

	assert.NoError(t, c.AddItem(p))
	assert.NoError(t, c.AddItem(p))

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, c.TotalItems())
}

// TestAddItem_ForaDeEstoque rejeita produto com inStock = false.
func TestAddItem_ForaDeEstoque(t *testing.T) {
	c := cart.New(nil)
	esgotado := domain.Product{ID: "x", Title: "Esgotado", Price: 10, InStock: false}

	err := c.AddItem(esgotado)
	assert.Error(t, err)
	assert.True(t, c.IsEmpty())
}

// TestAddItem_SinalDeUI: o callback de abrir o painel dispara no AddItem,
// separado da mutação de estado.
func TestAddItem_SinalDeUI(t *testing.T) {
	opened := 0
	c := cart.New(func() { opened++ })

	_ = c.AddItem(produto("1", 10))
	_ = c.AddItem(produto("1", 10))

	assert.Equal(t, 2, opened)
}

// TestUpdateQuantity_ZeroOuNegativoRemove: quantidade <= 0 remove a linha
// inteira — quantidade 0 nunca é um estado armazenado.
func TestUpdateQuantity_ZeroOuNegativoRemove(t *testing.T) {
	c := cart.New(nil)
	_ = c.AddItem(produto("1", 10))
	_ = c.AddItem(produto("2", 20))

	c.UpdateQuantity("1", 0)
	assert.Len(t, c.Lines(), 1)

	c.UpdateQuantity("2", -3)
	assert.True(t, c.IsEmpty())
}

// TestUpdateQuantity_SubstituiValor: quantidade positiva substitui (sem
// clamp pelo estoque — o estoque é consultivo).
func TestUpdateQuantity_SubstituiValor(t *testing.T) {
	c := cart.New(nil)
	p := produto("1", 10)
	p.StockCount = 2
	_ = c.AddItem(p)

	c.UpdateQuantity("1", 99)
	assert.Equal(t, 99, c.Lines()[0].Quantity)
}

// TestRemoveUpdate_IDDesconhecidoEhNoOp: operações com id inexistente são
// no-ops silenciosos — todas as operações são totais sobre o estado atual.
func TestRemoveUpdate_IDDesconhecidoEhNoOp(t *testing.T) {
	c := cart.New(nil)
	_ = c.AddItem(produto("1", 10))

	c.RemoveItem("fantasma")
	c.UpdateQuantity("fantasma", 5)

	assert.Len(t, c.Lines(), 1)
	assert.Equal(t, 1, c.TotalItems())
}

// TestTotais: totalItems e totalPrice acompanham qualquer sequência de
// operações e nunca ficam negativos.
func TestTotais(t *testing.T) {
	c := cart.New(nil)
	_ = c.AddItem(produto("a", 89.90))
	_ = c.AddItem(produto("b", 20.00))
	_ = c.AddItem(produto("b", 20.00))
	c.UpdateQuantity("a", 3)
	c.RemoveItem("b")

	assert.Equal(t, 3, c.TotalItems())
	assert.InDelta(t, 269.70, c.TotalPrice(), 0.001)

	c.Clear()
	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, 0.0, c.TotalPrice())
}

// TestFrete_Limites: o limite de frete grátis é exclusivo no lado de cima.
func TestFrete_Limites(t *testing.T) {
	assert.InDelta(t, 14.90, cart.Shipping(150.00), 0.001)
	assert.Equal(t, 0.0, cart.Shipping(150.01))
	assert.InDelta(t, 14.90, cart.Shipping(89.90), 0.001)
}

// TestFrete_CenarioLivroUnico: carrinho com um livro de 89.90.
func TestFrete_CenarioLivroUnico(t *testing.T) {
	c := cart.New(nil)
	_ = c.AddItem(produto("a", 89.90))

	s := c.Summarize()
	assert.InDelta(t, 89.90, s.Subtotal, 0.001)
	assert.InDelta(t, 14.90, s.Shipping, 0.001)
	assert.InDelta(t, 104.80, s.Total, 0.001)
}

// TestFrete_CenarioCruzaLimite: 149.90 paga frete; ao cruzar 150.01 o frete
// zera.
func TestFrete_CenarioCruzaLimite(t *testing.T) {
	c := cart.New(nil)
	_ = c.AddItem(produto("a", 149.90))
	assert.InDelta(t, 14.90, c.Summarize().Shipping, 0.001)

	_ = c.AddItem(produto("b", 0.11))
	s := c.Summarize()
	assert.InDelta(t, 150.01, s.Subtotal, 0.001)
	assert.Equal(t, 0.0, s.Shipping)
}
