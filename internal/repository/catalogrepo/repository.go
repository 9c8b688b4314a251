package catalogrepo

import (
	"context"
	"net/http"

	"livraria/internal/domain"
	"livraria/internal/pkg/apiclient"
)

// CatalogRepository é a camada de acesso ao catálogo remoto.
// Diferente de um repositório de banco, aqui o "storage" é a API HTTP do
// backend — o sistema de registro dos produtos.
type CatalogRepository struct {
	api *apiclient.Client
}

// NewCatalogRepository cria e retorna uma nova instância do Repositório.
func NewCatalogRepository(api *apiclient.Client) *CatalogRepository {
	return &CatalogRepository{api: api}
}

// FindAll busca produtos aplicando o filtro de catálogo.
func (r *CatalogRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var products []domain.Product
	err := r.api.Do(ctx, http.MethodGet, "/api/products", filter.QueryValues(), nil, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID busca um produto pelo ID.
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product
	err := r.api.Do(ctx, http.MethodGet, "/api/products/"+id, nil, nil, &product)
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Create registra um novo produto (console admin).
func (r *CatalogRepository) Create(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	var product domain.Product
	err := r.api.Do(ctx, http.MethodPost, "/api/products", nil, input, &product)
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Update substitui os dados de um produto e retorna o registro atualizado.
// PUT é idempotente por id.
func (r *CatalogRepository) Update(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error) {
	var product domain.Product
	err := r.api.Do(ctx, http.MethodPut, "/api/products/"+id, nil, input, &product)
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Delete remove um produto do catálogo (resposta 204, sem corpo).
func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	return r.api.Do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil, nil)
}
