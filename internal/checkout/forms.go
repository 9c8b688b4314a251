package checkout

import "strings"

// Nomes de campo dos formulários. São as chaves do mapa de erros e o
// vocabulário dos setters — os mesmos nomes que a UI exibe ao lado do campo.
const (
	FieldNome        = "nome"
	FieldEmail       = "email"
	FieldCEP         = "cep"
	FieldEndereco    = "endereco"
	FieldNumero      = "numero"
	FieldComplemento = "complemento"
	FieldBairro      = "bairro"
	FieldCidade      = "cidade"
	FieldEstado      = "estado"

	FieldCardNumber = "cardNumber"
	FieldExpiry     = "expiry"
	FieldCVV        = "cvv"
	FieldCardName   = "cardName"
)

// AddressForm é o formulário do passo de endereço.
// Obrigatórios: nome, email, cep, endereco, numero, cidade, estado.
type AddressForm struct {
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	CEP         string `json:"cep"`
	Endereco    string `json:"endereco"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
}

// PaymentMethod discrimina o formulário de pagamento.
type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodPix  PaymentMethod = "pix"
)

// CardForm é o formulário de cartão. Com método pix nenhum campo é exigido.
// Os dados ficam apenas na sessão: nunca são transmitidos a processador de
// pagamento neste escopo.
type CardForm struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	CardName   string `json:"cardName"`
}

// --- Normalização de entrada (os mesmos formatos da UI original) ---

// onlyDigits remove tudo que não for dígito.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatCEP normaliza para 00000-000, truncando em 8 dígitos.
func formatCEP(value string) string {
	digits := onlyDigits(value)
	if len(digits) > 8 {
		digits = digits[:8]
	}
	if len(digits) > 5 {
		return digits[:5] + "-" + digits[5:]
	}
	return digits
}

// formatCardNumber agrupa os dígitos de 4 em 4, truncando em 16.
func formatCardNumber(value string) string {
	digits := onlyDigits(value)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var groups []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	return strings.Join(groups, " ")
}

// formatExpiry normaliza para MM/AA, truncando em 4 dígitos.
func formatExpiry(value string) string {
	digits := onlyDigits(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) > 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// formatCVV mantém somente dígitos, truncando em 4.
func formatCVV(value string) string {
	digits := onlyDigits(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}
