package query

import "livraria/internal/domain"

// Chaves de cache centralizadas.
//
// Cada chave é uma tupla estruturada (entidade:operação:parâmetros) gravada
// como string. A derivação é determinística: dois pedidos pelo mesmo recurso
// lógico produzem a mesma chave e colidem no cache (QueryValues().Encode()
// ordena os parâmetros).
//
// As raízes de entidade existem para a invalidação grosseira: qualquer
// mutação de produto apaga tudo sob "products:", qualquer mutação de pedido
// apaga tudo sob "orders:". Correção acima de precisão.
const (
	ProductsRoot = "products:"
	OrdersRoot   = "orders:"
	StatsKey     = "stats"
)

// ProductListKey deriva a chave de uma listagem de produtos filtrada.
func ProductListKey(filter domain.ProductFilter) string {
	qs := filter.QueryValues().Encode()
	if qs == "" {
		qs = "all"
	}
	return ProductsRoot + "list:" + qs
}

// ProductDetailKey deriva a chave do detalhe de um produto.
func ProductDetailKey(id string) string {
	return ProductsRoot + "detail:" + id
}

// OrderListKey deriva a chave de uma página de pedidos.
func OrderListKey(filter domain.OrderFilter) string {
	qs := filter.QueryValues().Encode()
	if qs == "" {
		qs = "all"
	}
	return OrdersRoot + "list:" + qs
}

// OrderDetailKey deriva a chave do detalhe de um pedido.
func OrderDetailKey(id string) string {
	return OrdersRoot + "detail:" + id
}
