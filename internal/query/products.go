package query

import (
	"context"
	"fmt"
	"time"

	"livraria/internal/domain"
	apperror "livraria/internal/errors"
	"livraria/internal/pkg/cache"
	"livraria/internal/pkg/logger"
	"livraria/internal/pkg/metrics"
)

// CatalogRepository define o contrato que esta camada espera do acesso
// remoto ao catálogo.
type CatalogRepository interface {
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	Update(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductQueries é a camada de Query de produtos: leituras fetch-through e
// mutações com invalidação grosseira da raiz "products:".
type ProductQueries struct {
	repo    CatalogRepository
	cache   cache.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewProductQueries cria a camada de Query de produtos.
func NewProductQueries(repo CatalogRepository, c cache.Client, ttl time.Duration, m *metrics.Metrics, log logger.Logger) *ProductQueries {
	return &ProductQueries{repo: repo, cache: c, ttl: ttl, metrics: m, log: log}
}

// List busca produtos com cache por conjunto de filtros.
// Leituras repetidas com parâmetros idênticos reutilizam a entrada até a
// próxima invalidação.
func (q *ProductQueries) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return fetchThrough(ctx, q.cache, q.metrics, "products", ProductListKey(filter), q.ttl,
		func(ctx context.Context) ([]domain.Product, error) {
			return q.repo.FindAll(ctx, filter)
		})
}

// Get busca um produto com cache por id.
func (q *ProductQueries) Get(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	return fetchThrough(ctx, q.cache, q.metrics, "products", ProductDetailKey(id), q.ttl,
		func(ctx context.Context) (domain.Product, error) {
			return q.repo.FindByID(ctx, id)
		})
}

// Create registra um novo produto e invalida todas as entradas de produto.
func (q *ProductQueries) Create(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return domain.Product{}, err
	}

	created, err := q.repo.Create(ctx, input)
	if err != nil {
		return domain.Product{}, err
	}

	q.invalidate(ctx)
	q.log.Info("Produto criado.", map[string]interface{}{"id": created.ID, "title": created.Title})
	return created, nil
}

// Update substitui um produto. Além da invalidação grosseira, a resposta já
// traz o registro atualizado, então semeamos a chave de detalhe diretamente —
// a próxima leitura do detalhe não gera round trip.
func (q *ProductQueries) Update(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	if err := validateProductInput(input); err != nil {
		return domain.Product{}, err
	}

	updated, err := q.repo.Update(ctx, id, input)
	if err != nil {
		return domain.Product{}, err
	}

	q.invalidate(ctx)
	seed(ctx, q.cache, ProductDetailKey(updated.ID), updated, q.ttl)
	q.log.Info("Produto atualizado.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove um produto e invalida todas as entradas de produto.
func (q *ProductQueries) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidationError("O ID do produto é obrigatório.")
	}

	if err := q.repo.Delete(ctx, id); err != nil {
		return err
	}

	q.invalidate(ctx)
	q.log.Info("Produto removido.", map[string]interface{}{"id": id})
	return nil
}

// invalidate apaga toda a raiz de produtos. Falha de cache aqui é logada e
// engolida: a entrada órfã expira pelo TTL.
func (q *ProductQueries) invalidate(ctx context.Context) {
	if err := q.cache.DeletePrefix(ctx, ProductsRoot); err != nil {
		q.log.Warn("Falha ao invalidar cache de produtos.", map[string]interface{}{"error": err.Error()})
	}
}

// validateProductInput aplica as regras de negócio do catálogo.
func validateProductInput(input domain.ProductInput) error {
	if input.Title == "" || input.Author == "" {
		return apperror.NewValidationError("Título e autor são obrigatórios para o produto.")
	}
	if input.Price <= 0 {
		return apperror.NewValidationError("O preço do produto deve ser positivo.")
	}
	if input.OriginalPrice != nil && *input.OriginalPrice < input.Price {
		return apperror.NewValidationError("O preço original deve ser maior ou igual ao preço atual.")
	}
	switch input.Format {
	case domain.FormatFisico, domain.FormatEbook, domain.FormatKit:
	default:
		return apperror.NewValidationError(fmt.Sprintf("Formato inválido: %s.", input.Format))
	}
	switch input.Category {
	case domain.CategoryInteligenciaArtificial, domain.CategoryBlockchain,
		domain.CategoryCiberseguranca, domain.CategoryMachineLearning, domain.CategoryDataScience:
	default:
		return apperror.NewValidationError(fmt.Sprintf("Categoria inválida: %s.", input.Category))
	}
	if input.StockCount < 0 {
		return apperror.NewValidationError("A contagem de estoque não pode ser negativa.")
	}
	return nil
}
