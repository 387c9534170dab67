package producthunt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

var ErrMissingField = errors.New("missing field in response")

// postsQuery asks for the top ranked launches; %d is the page size.
const postsQuery = `
{
  posts(first: %d, order: RANKING) {
    edges {
      node {
        name
        description
        tagline
        url
        votesCount
        website
        topics {
          edges {
            node {
              name
            }
          }
        }
      }
    }
  }
}
`

type Client struct {
	gql      *GraphQLClient
	pageSize int
	keyword  string
}

func NewClient(endpoint, token string, pageSize int, keyword string) *Client {
	return &Client{
		gql:      NewGraphQLClient(endpoint, token),
		pageSize: pageSize,
		keyword:  keyword,
	}
}

type postsData struct {
	Posts *struct {
		Edges []struct {
			Node *postNode `json:"node"`
		} `json:"edges"`
	} `json:"posts"`
}

type postNode struct {
	Name        *string `json:"name"`
	Description string  `json:"description"`
	Tagline     string  `json:"tagline"`
	URL         string  `json:"url"`
	VotesCount  int     `json:"votesCount"`
	Website     string  `json:"website"`
	Topics      *struct {
		Edges []struct {
			Node struct {
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"topics"`
}

// FetchPosts returns the ranked posts in API order. One attempt, no paging.
func (c *Client) FetchPosts(ctx context.Context) ([]model.Product, error) {
	resp, err := c.gql.Execute(ctx, fmt.Sprintf(postsQuery, c.pageSize), nil)
	if err != nil {
		return nil, err
	}

	data, err := UnmarshalGraphQLData[postsData](resp)
	if err != nil {
		return nil, err
	}

	if data.Posts == nil {
		return nil, fmt.Errorf("%w: data.posts", ErrMissingField)
	}

	products := make([]model.Product, 0, len(data.Posts.Edges))
	for i, edge := range data.Posts.Edges {
		node := edge.Node
		if node == nil || node.Name == nil {
			return nil, fmt.Errorf("%w: posts.edges[%d].node.name", ErrMissingField, i)
		}
		if node.Topics == nil {
			return nil, fmt.Errorf("%w: posts.edges[%d].node.topics", ErrMissingField, i)
		}

		topics := make([]string, 0, len(node.Topics.Edges))
		for _, t := range node.Topics.Edges {
			topics = append(topics, t.Node.Name)
		}

		products = append(products, model.Product{
			Name:        *node.Name,
			Tagline:     node.Tagline,
			Description: node.Description,
			URL:         node.URL,
			Website:     node.Website,
			VotesCount:  node.VotesCount,
			Topics:      topics,
		})
	}

	return products, nil
}

// FetchSaaSProducts fetches the ranking and keeps the products tagged with
// the configured keyword. Failures come back as a single failed result.
func (c *Client) FetchSaaSProducts(ctx context.Context) []model.Result[model.Product] {
	products, err := c.FetchPosts(ctx)
	if err != nil {
		slog.Warn("producthunt fetch failed", "error", err)
		return []model.Result[model.Product]{
			model.Fail[model.Product](fmt.Sprintf("Error fetching ProductHunt data: %v", err)),
		}
	}

	filtered := FilterByTopic(products, c.keyword)
	slog.Info("producthunt fetch complete", "fetched", len(products), "matched", len(filtered), "keyword", c.keyword)

	results := make([]model.Result[model.Product], 0, len(filtered))
	for _, p := range filtered {
		results = append(results, model.Ok(p))
	}
	return results
}

// FilterByTopic keeps products having at least one topic whose name
// contains keyword, ignoring case. Order is preserved.
func FilterByTopic(products []model.Product, keyword string) []model.Product {
	needle := strings.ToLower(keyword)
	filtered := []model.Product{}
	for _, p := range products {
		for _, topic := range p.Topics {
			if strings.Contains(strings.ToLower(topic), needle) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}
