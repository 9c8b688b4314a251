package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	apperror "livraria/internal/errors"
	"livraria/internal/pkg/logger"
	"livraria/internal/pkg/metrics"
)

// errorBody é o payload de erro estruturado que o backend remoto devolve
// em respostas não-2xx: { "error": "mensagem" }.
type errorBody struct {
	Error string `json:"error"`
}

// rejection marca respostas 4xx: a chamada chegou ao servidor e foi recusada
// pela aplicação. O circuit breaker não deve contá-las como falha de
// infraestrutura.
type rejection struct {
	err error
}

func (r *rejection) Error() string { return r.err.Error() }
func (r *rejection) Unwrap() error { return r.err }

// Client é o caminho único de chamada para a API remota: monta a URL
// absoluta, anexa o header JSON, executa e normaliza qualquer resposta
// não-2xx em um apperror.NetworkError com mensagem legível.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	metrics *metrics.Metrics
	log     logger.Logger
}

// New cria o cliente da API remota.
// O circuit breaker abre após falhas consecutivas de transporte/5xx,
// protegendo o serviço de martelar um backend indisponível.
func New(baseURL string, timeout time.Duration, log logger.Logger, m *metrics.Metrics) *Client {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Rejeições da aplicação (4xx) não derrubam o breaker.
			var rej *rejection
			return errors.As(err, &rej)
		},
	})

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cb:      cb,
		metrics: m,
		log:     log,
	}
}

// Do executa uma chamada à API remota.
//   - method/path: e.g. GET /api/products
//   - query: parâmetros opcionais (nil para nenhum)
//   - body: struct serializada como JSON (nil para sem corpo)
//   - out: destino da resposta decodificada (nil para ignorar o corpo)
//
// Respostas 204 resolvem sem tentar decodificar JSON. Todos os erros chegam
// ao chamador como um único tipo (apperror.NetworkError) carregando a
// mensagem — o chamador não precisa distinguir falha de transporte de
// rejeição da aplicação.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperror.NewInternalError("Falha ao serializar o corpo da requisição.", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return apperror.NewInternalError("Falha ao montar a requisição.", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	payload, err := c.cb.Execute(func() ([]byte, error) {
		return c.roundTrip(req)
	})
	c.metrics.ObserveRequest(method, time.Since(start))

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperror.NewNetworkError("Serviço remoto temporariamente indisponível.", err)
		}
		var rej *rejection
		if errors.As(err, &rej) {
			return apperror.NewNetworkError(rej.err.Error(), rej.err)
		}
		return apperror.NewNetworkError(err.Error(), err)
	}

	// 204 No Content (ou corpo vazio): nada a decodificar.
	if out == nil || len(payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return apperror.NewNetworkError("Resposta inválida do serviço remoto.", err)
	}
	return nil
}

// roundTrip executa a chamada HTTP e traduz o status em sucesso/erro.
// Retorna o corpo bruto para o chamador decodificar.
func (c *Client) roundTrip(req *http.Request) ([]byte, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Tenta o payload estruturado { "error": "..." }; se não der,
		// cai no texto do status.
		var eb errorBody
		msg := res.Status
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		failure := fmt.Errorf("%s", msg)
		if res.StatusCode >= 500 {
			return nil, failure
		}
		return nil, &rejection{err: failure}
	}

	return data, nil
}
