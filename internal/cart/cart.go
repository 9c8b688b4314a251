package cart

import (
	"livraria/internal/domain"
	apperror "livraria/internal/errors"
)

// Line é um item do carrinho: (produto, quantidade >= 1).
// Invariante: no máximo uma Line por produto; quantidade 0 não é um estado
// armazenável — chegar a 0 remove a linha.
type Line struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal é o preço unitário vezes a quantidade desta linha.
func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// Cart é o motor do carrinho da sessão ativa: a sequência ordenada de linhas
// (ordem de inserção) e seus totais derivados. Ele nunca fala com a rede.
//
// Cada sessão é dona exclusiva do seu Cart — não há singleton de processo,
// então várias sessões independentes (inclusive em testes) coexistem.
type Cart struct {
	lines []Line

	// onOpen é o sinal de UI "abrir o painel do carrinho" disparado por
	// AddItem. É um efeito observável separado da transição de estado, não
	// um invariante do motor.
	onOpen func()
}

// New cria um carrinho vazio. onOpen pode ser nil quando não há UI
// interessada no sinal.
func New(onOpen func()) *Cart {
	return &Cart{onOpen: onOpen}
}

// AddItem adiciona uma unidade do produto: se já existe uma linha para o
// mesmo id, incrementa a quantidade em 1; senão, anexa uma linha nova com
// quantidade 1. Produto fora de estoque é rejeitado.
func (c *Cart) AddItem(product domain.Product) error {
	if !product.InStock {
		return apperror.NewValidationError("Produto fora de estoque.")
	}

	defer func() {
		if c.onOpen != nil {
			c.onOpen()
		}
	}()

	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity++
			return nil
		}
	}

	c.lines = append(c.lines, Line{Product: product, Quantity: 1})
	return nil
}

// RemoveItem apaga a linha do produto, se existir. ID desconhecido é no-op
// silencioso, não erro.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity substitui a quantidade da linha. Quantidade <= 0 equivale a
// RemoveItem. Não há clamp pelo estoque: o estoque é consultivo, não
// imposto no cliente.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear esvazia o carrinho (chamado após a confirmação do pedido).
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines retorna uma cópia das linhas na ordem de inserção.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty responde se o carrinho não tem linhas.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalItems é a soma das quantidades de todas as linhas.
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice é a soma dos subtotais (preço unitário × quantidade).
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}
