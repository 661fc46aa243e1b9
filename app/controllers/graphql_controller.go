package controllers

import (
	"net/http"

	gql "github.com/graphql-go/graphql"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/internal/runtime"
	graphqlx "github.com/trancendwear/trancend/pkg/graphql"
)

// Catalog read model exposed over GraphQL, for storefront clients that
// prefer one round trip for a whole page of data.

var colorType = gql.NewObject(gql.ObjectConfig{
	Name: "Color",
	Fields: gql.Fields{
		"name": &gql.Field{Type: gql.String},
		"hex":  &gql.Field{Type: gql.String},
	},
})

var categoryType = gql.NewObject(gql.ObjectConfig{
	Name: "Category",
	Fields: gql.Fields{
		"id":    &gql.Field{Type: gql.String},
		"name":  &gql.Field{Type: gql.String},
		"slug":  &gql.Field{Type: gql.String},
		"order": &gql.Field{Type: gql.Int},
	},
})

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: gql.String},
		"name":        &gql.Field{Type: gql.String},
		"price":       &gql.Field{Type: gql.Float},
		"description": &gql.Field{Type: gql.String},
		"category":    &gql.Field{Type: gql.String},
		"sizes":       &gql.Field{Type: gql.NewList(gql.String)},
		"colors":      &gql.Field{Type: gql.NewList(colorType)},
		"inStock": &gql.Field{
			Type: gql.Boolean,
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).InStock, nil
			},
		},
		"featured": &gql.Field{Type: gql.Boolean},
	},
})

var heroSlideType = gql.NewObject(gql.ObjectConfig{
	Name: "HeroSlide",
	Fields: gql.Fields{
		"id":       &gql.Field{Type: gql.String},
		"title":    &gql.Field{Type: gql.String},
		"subtitle": &gql.Field{Type: gql.String},
		"ctaLabel": &gql.Field{
			Type: gql.String,
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(models.HeroSlide).CTALabel, nil
			},
		},
		"ctaUrl": &gql.Field{
			Type: gql.String,
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(models.HeroSlide).CTAURL, nil
			},
		},
		"order": &gql.Field{Type: gql.Int},
	},
})

func catalogOf(p gql.ResolveParams) *runtime.Runtime {
	return runtime.FromContext(p.Context)
}

// NewGraphQLHandler builds the /graphql endpoint over the catalog.
func NewGraphQLHandler() (http.HandlerFunc, error) {
	root := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"categories": &gql.Field{
				Type: gql.NewList(categoryType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return catalogOf(p).Catalog.Categories(), nil
				},
			},
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"category": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					slug, _ := p.Args["category"].(string)
					return catalogOf(p).Catalog.Products(slug), nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					product := catalogOf(p).Catalog.Product(id)
					if product == nil {
						return nil, nil
					}
					return *product, nil
				},
			},
			"featured": &gql.Field{
				Type: gql.NewList(productType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return catalogOf(p).Catalog.Featured(), nil
				},
			},
			"search": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"query": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["query"].(string)
					return catalogOf(p).Catalog.Search(q), nil
				},
			},
			"heroSlides": &gql.Field{
				Type: gql.NewList(heroSlideType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return catalogOf(p).Catalog.HeroSlides(), nil
				},
			},
		},
	})

	schema, err := graphqlx.NewSchema(root)
	if err != nil {
		return nil, err
	}
	return graphqlx.Handler(schema), nil
}
