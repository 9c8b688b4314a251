package checkout

import (
	"regexp"
	"strings"
)

// Mensagens de erro de campo exibidas inline na UI.
// Erros de validação nunca saem da fronteira do Wizard nem vão à rede.
const (
	msgObrigatorio    = "Este campo é obrigatório"
	msgEmailInvalido  = "E-mail inválido"
	msgCEPInvalido    = "CEP inválido"
	msgCartaoInvalido = "Número do cartão inválido"
	msgCVVInvalido    = "CVV inválido"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateAddress faz a checagem de obrigatórios do formulário de endereço,
// o formato do e-mail e o CEP (exatamente 8 dígitos após remover a máscara).
// Retorna o conjunto de erros de campo; vazio significa válido.
func validateAddress(form AddressForm) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(form.Nome) == "" {
		errs[FieldNome] = msgObrigatorio
	}

	if strings.TrimSpace(form.Email) == "" {
		errs[FieldEmail] = msgObrigatorio
	} else if !emailPattern.MatchString(form.Email) {
		errs[FieldEmail] = msgEmailInvalido
	}

	if strings.TrimSpace(form.CEP) == "" {
		errs[FieldCEP] = msgObrigatorio
	} else if len(onlyDigits(form.CEP)) != 8 {
		errs[FieldCEP] = msgCEPInvalido
	}

	if strings.TrimSpace(form.Endereco) == "" {
		errs[FieldEndereco] = msgObrigatorio
	}
	if strings.TrimSpace(form.Numero) == "" {
		errs[FieldNumero] = msgObrigatorio
	}
	if strings.TrimSpace(form.Cidade) == "" {
		errs[FieldCidade] = msgObrigatorio
	}
	if strings.TrimSpace(form.Estado) == "" {
		errs[FieldEstado] = msgObrigatorio
	}

	return errs
}

// validatePayment valida o formulário conforme o método.
// pix: sempre válido (nenhum campo exigido). card: todos os quatro campos
// obrigatórios, número com pelo menos 16 dígitos, CVV com pelo menos 3.
func validatePayment(method PaymentMethod, card CardForm) map[string]string {
	if method == MethodPix {
		return map[string]string{}
	}

	errs := map[string]string{}

	number := onlyDigits(card.CardNumber)
	if number == "" {
		errs[FieldCardNumber] = msgObrigatorio
	} else if len(number) < 16 {
		errs[FieldCardNumber] = msgCartaoInvalido
	}

	if strings.TrimSpace(card.Expiry) == "" {
		errs[FieldExpiry] = msgObrigatorio
	}

	if strings.TrimSpace(card.CVV) == "" {
		errs[FieldCVV] = msgObrigatorio
	} else if len(card.CVV) < 3 {
		errs[FieldCVV] = msgCVVInvalido
	}

	if strings.TrimSpace(card.CardName) == "" {
		errs[FieldCardName] = msgObrigatorio
	}

	return errs
}
