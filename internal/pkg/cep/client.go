package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperror "livraria/internal/errors"
	"livraria/internal/pkg/apiclient"
	"livraria/internal/pkg/logger"
)

// Address é o resultado da consulta de CEP já traduzido para os nomes de
// campo do formulário de entrega.
type Address struct {
	Street       string
	Neighborhood string
	City         string
	State        string
}

// viaCEPResponse espelha o payload do ViaCEP.
// "erro" chega como bool ou como string dependendo da versão do serviço,
// então guardamos o valor bruto.
type viaCEPResponse struct {
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

// Client consulta o serviço de resolução de endereços (ViaCEP ou compatível).
// Toda falha aqui é não-fatal: o checkout trata a consulta como um
// aprimoramento, nunca como dependência bloqueante.
type Client struct {
	api *apiclient.Client
}

// New cria o cliente de CEP com seu próprio circuit breaker (independente do
// breaker da API de catálogo).
func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{api: apiclient.New(baseURL, timeout, log, nil)}
}

// Lookup consulta um CEP de 8 dígitos e retorna o endereço resolvido.
// O chamador é responsável por já ter normalizado o CEP (somente dígitos).
func (c *Client) Lookup(ctx context.Context, cepDigits string) (Address, error) {
	if len(cepDigits) != 8 {
		return Address{}, apperror.NewValidationError("CEP deve ter exatamente 8 dígitos.")
	}

	var res viaCEPResponse
	path := fmt.Sprintf("/ws/%s/json/", cepDigits)
	if err := c.api.Do(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return Address{}, err
	}

	// O ViaCEP responde 200 com { "erro": true } (ou "erro": "true") para
	// CEP inexistente.
	if flag := strings.Trim(string(res.Erro), `"`); flag != "" && flag != "false" {
		return Address{}, apperror.NewNotFoundError(fmt.Sprintf("CEP %s não encontrado.", cepDigits))
	}

	return Address{
		Street:       res.Logradouro,
		Neighborhood: res.Bairro,
		City:         res.Localidade,
		State:        res.UF,
	}, nil
}
