package cart

// Regra de frete da loja. Esta é A implementação única: resumo do carrinho e
// resumo do checkout calculam o total por aqui, nunca por cópias locais.
const (
	// FreeShippingThreshold é exclusivo: frete grátis somente ACIMA de 150.00.
	FreeShippingThreshold = 150.00
	// ShippingFee é o valor fixo cobrado abaixo do limite.
	ShippingFee = 14.90
)

// Shipping é uma função pura do subtotal: 0 quando subtotal > 150.00, senão
// a taxa fixa de 14.90.
func Shipping(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

// Total é o subtotal mais o frete.
func Total(subtotal float64) float64 {
	return subtotal + Shipping(subtotal)
}

// Summary agrupa os valores exibidos em qualquer resumo de compra.
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Summarize calcula o resumo de preços do carrinho.
func (c *Cart) Summarize() Summary {
	subtotal := c.TotalPrice()
	return Summary{
		Subtotal: subtotal,
		Shipping: Shipping(subtotal),
		Total:    Total(subtotal),
	}
}
