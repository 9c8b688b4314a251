package domain

import (
	"net/url"
	"strconv"
	"time"
)

// ProductFormat é o conjunto fechado de formatos do catálogo.
type ProductFormat string

const (
	FormatFisico ProductFormat = "Fisico"
	FormatEbook  ProductFormat = "Ebook"
	FormatKit    ProductFormat = "Kit"
)

// ProductCategory é o conjunto fechado de categorias do catálogo
// (espelha o schema do backend remoto).
type ProductCategory string

const (
	CategoryInteligenciaArtificial ProductCategory = "Inteligencia_Artificial"
	CategoryBlockchain             ProductCategory = "Blockchain"
	CategoryCiberseguranca         ProductCategory = "Ciberseguranca"
	CategoryMachineLearning        ProductCategory = "Machine_Learning"
	CategoryDataScience            ProductCategory = "Data_Science"
)

// Product representa um item do catálogo (a Entidade).
// Do ponto de vista do carrinho/checkout ela é imutável: quem cria e altera
// produtos é o console administrativo, sempre via API remota.
type Product struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
	// OriginalPrice, quando presente, deve ser >= Price (exibição de desconto).
	OriginalPrice *float64        `json:"originalPrice,omitempty"`
	Format        ProductFormat   `json:"format"`
	Category      ProductCategory `json:"category"`
	ImageURL      string          `json:"imageUrl"`
	InStock       bool            `json:"inStock"`
	// StockCount é consultivo; para Ebook é irrelevante (estoque ilimitado).
	StockCount  int       `json:"stockCount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput é o corpo de criação/atualização de produto (console admin).
// Campos de identidade e timestamps pertencem ao backend remoto.
type ProductInput struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Price         float64         `json:"price"`
	OriginalPrice *float64        `json:"originalPrice,omitempty"`
	Format        ProductFormat   `json:"format"`
	Category      ProductCategory `json:"category"`
	ImageURL      string          `json:"imageUrl"`
	InStock       bool            `json:"inStock"`
	StockCount    int             `json:"stockCount"`
	Description   string          `json:"description"`
}

// ProductFilter define os parâmetros de busca do catálogo.
type ProductFilter struct {
	Category ProductCategory
	Format   ProductFormat
	Search   string
	InStock  *bool
}

// QueryValues converte o filtro em query string canônica.
// url.Values.Encode ordena as chaves, então filtros logicamente iguais
// produzem sempre a MESMA string — é isso que torna a derivação de chave de
// cache determinística.
func (f ProductFilter) QueryValues() url.Values {
	params := url.Values{}
	if f.Category != "" {
		params.Set("category", string(f.Category))
	}
	if f.Format != "" {
		params.Set("format", string(f.Format))
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.InStock != nil {
		params.Set("inStock", strconv.FormatBool(*f.InStock))
	}
	return params
}
