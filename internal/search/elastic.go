// Package search indexe le catalogue dans Elasticsearch et sert la recherche
// plein texte. Sans cluster configuré, la recherche retombe sur un filtre en
// mémoire par-dessus Scylla.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/store"
)

const productIndex = "products"

// Index : abstraction injectée dans les handlers produit.
type Index interface {
	IndexProduct(ctx context.Context, p *models.Product)
	RemoveProduct(ctx context.Context, id string)
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// ElasticIndex : implémentation Elasticsearch avec repli Scylla.
type ElasticIndex struct {
	client   *elasticsearch.Client
	fallback store.Products
}

func NewElasticIndex(client *elasticsearch.Client, fallback store.Products) *ElasticIndex {
	return &ElasticIndex{client: client, fallback: fallback}
}

// IndexProduct pousse (ou re-pousse) un produit dans l'index. L'indexation ne
// conditionne jamais l'écriture Scylla : les erreurs sont seulement loggées.
func (e *ElasticIndex) IndexProduct(ctx context.Context, p *models.Product) {
	if e.client == nil {
		log.Println("⚠️ Elastic non initialisé, impossible d'indexer:", p.Name)
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      productIndex,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Name, res.String())
	} else {
		log.Printf("✅ Produit indexé dans Elasticsearch: %s", p.Name)
	}
}

// RemoveProduct retire un produit supprimé de l'index.
func (e *ElasticIndex) RemoveProduct(ctx context.Context, id string) {
	if e.client == nil {
		return
	}

	req := esapi.DeleteRequest{Index: productIndex, DocumentID: id, Refresh: "true"}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		log.Println("❌ Erreur suppression Elastic:", err)
		return
	}
	res.Body.Close()
}

// Search interroge l'index en multi_match sur nom, description et catégorie.
func (e *ElasticIndex) Search(ctx context.Context, query string) ([]models.Product, error) {
	if e.client == nil {
		return e.searchFallback(ctx, query)
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name", "description", "category"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var em map[string]interface{}
		json.NewDecoder(res.Body).Decode(&em)
		log.Printf("❌ Elasticsearch erreur: %+v", em)
		return e.searchFallback(ctx, query)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %v", err)
	}

	results := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}

// searchFallback filtre le catalogue complet en mémoire (sous-chaîne,
// insensible à la casse).
func (e *ElasticIndex) searchFallback(ctx context.Context, query string) ([]models.Product, error) {
	all, err := e.fallback.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := make([]models.Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.EqualFold(p.Category, query) {
			results = append(results, p)
		}
	}
	return results, nil
}
