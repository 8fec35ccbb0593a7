// Package lookup procura um produto no site do revendedor e devolve a URL da
// página dele.
package lookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound: a busca respondeu, mas nenhum link corresponde ao produto.
	ErrNotFound = errors.New("produto não encontrado no revendedor")
	// ErrUnavailable: falha de rede, timeout ou status HTTP de erro.
	ErrUnavailable = errors.New("revendedor indisponível")
)

// Client consulta a busca do revendedor. Não há cache nem retry: cada
// chamada faz uma requisição.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("url base inválida %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url base inválida %q: esquema e host são obrigatórios", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: u,
		http:    resty.New().SetTimeout(timeout),
		logger:  logger.With("component", "lookup"),
	}, nil
}

// HTTPClient expõe o cliente resty (os testes o usam com httpmock).
func (c *Client) HTTPClient() *resty.Client {
	return c.http
}

// SearchURL é a URL de busca para o nome do produto.
func (c *Client) SearchURL(productName string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/search"
	u.RawQuery = url.Values{"q": {productName}}.Encode()
	return u.String()
}

// Lookup devolve a URL absoluta do primeiro link cujo texto contém o nome do
// produto (sem diferenciar maiúsculas).
func (c *Client) Lookup(ctx context.Context, productName string) (string, error) {
	name := strings.TrimSpace(productName)
	if name == "" {
		return "", ErrNotFound
	}

	searchURL := c.SearchURL(name)
	resp, err := c.http.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		c.logger.WarnContext(ctx, "erro na busca do revendedor", "url", searchURL, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		c.logger.WarnContext(ctx, "busca do revendedor respondeu com erro", "url", searchURL, "status", resp.StatusCode())
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("%w: html inválido: %v", ErrUnavailable, err)
	}

	href, ok := FindAnchor(doc.Selection, name)
	if !ok {
		c.logger.DebugContext(ctx, "produto não encontrado no revendedor", "product", name)
		return "", ErrNotFound
	}

	resolved, err := c.resolve(href)
	if err != nil {
		c.logger.WarnContext(ctx, "href inválido no resultado da busca", "href", href, "error", err)
		return "", ErrNotFound
	}
	return resolved, nil
}

func (c *Client) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func anchorText(s *goquery.Selection) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s.Text()), " ")
}

// FindAnchor percorre os <a href> em ordem e devolve o href do primeiro cujo
// texto contém name.
func FindAnchor(sel *goquery.Selection, name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}

	var found string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(anchorText(a)), needle) {
			return true
		}
		href, _ := a.Attr("href")
		if strings.TrimSpace(href) == "" {
			return true
		}
		found = strings.TrimSpace(href)
		return false
	})
	return found, found != ""
}
