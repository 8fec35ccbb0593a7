// Package instagram busca as últimas publicações e o perfil da conta da loja
// na Graph API e mantém um cache com TTL desses dados.
package instagram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://graph.instagram.com"
	DefaultLimit   = 6
	MaxCaptionLen  = 300

	mediaTypeCarousel = "CAROUSEL_ALBUM"

	postsTimeout   = 8 * time.Second
	childTimeout   = 6 * time.Second
	profileTimeout = 6 * time.Second

	mediaFields = "id,caption,media_type,media_url,permalink,thumbnail_url,timestamp"
	childFields = "children{id,media_type,media_url,thumbnail_url}"
)

var ErrFetch = errors.New("falha ao consultar o instagram")

// Post é o resumo de uma publicação exibido na home.
type Post struct {
	MediaURL  string `json:"media_url"`
	Permalink string `json:"permalink"`
	Caption   string `json:"caption"`
	MediaType string `json:"media_type"`
	Timestamp string `json:"timestamp"`
}

type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type media struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	Permalink    string `json:"permalink"`
	ThumbnailURL string `json:"thumbnail_url"`
	Timestamp    string `json:"timestamp"`
}

type mediaResponse struct {
	Data []media `json:"data"`
}

type childrenResponse struct {
	Children struct {
		Data []media `json:"data"`
	} `json:"children"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Client fala com a Graph API. Não guarda estado; o cache fica em Feed.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
		logger: logger.With("component", "instagram"),
	}
}

// HTTPClient expõe o cliente resty (os testes o usam com httpmock).
func (c *Client) HTTPClient() *resty.Client {
	return c.http
}

func (c *Client) get(ctx context.Context, timeout time.Duration, path string, query map[string]string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		SetError(&apiError{}).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetch, path, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*apiError); ok && e.Error.Message != "" {
			msg = e.Error.Message
		}
		return fmt.Errorf("%w: %s: status %d: %s", ErrFetch, path, resp.StatusCode(), msg)
	}
	return nil
}

// FetchPosts busca até limit publicações recentes. Álbuns sem mídia direta
// recebem a mídia do primeiro filho; se essa consulta falhar, a publicação
// fica sem mídia mas o lote não falha.
func (c *Client) FetchPosts(ctx context.Context, token string, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var payload mediaResponse
	err := c.get(ctx, postsTimeout, "/me/media", map[string]string{
		"fields":       mediaFields,
		"limit":        strconv.Itoa(limit),
		"access_token": token,
	}, &payload)
	if err != nil {
		return nil, err
	}

	entries := payload.Data
	if len(entries) > limit {
		entries = entries[:limit]
	}

	posts := make([]Post, 0, len(entries))
	for _, m := range entries {
		mediaURL := firstNonEmpty(m.MediaURL, m.ThumbnailURL)
		if m.MediaType == mediaTypeCarousel && mediaURL == "" && m.ID != "" {
			mediaURL = c.firstChildMedia(ctx, token, m.ID)
		}
		posts = append(posts, Post{
			MediaURL:  mediaURL,
			Permalink: m.Permalink,
			Caption:   truncate(m.Caption, MaxCaptionLen),
			MediaType: m.MediaType,
			Timestamp: m.Timestamp,
		})
	}
	return posts, nil
}

func (c *Client) firstChildMedia(ctx context.Context, token, id string) string {
	var payload childrenResponse
	err := c.get(ctx, childTimeout, "/"+id, map[string]string{
		"fields":       childFields,
		"access_token": token,
	}, &payload)
	if err != nil {
		c.logger.DebugContext(ctx, "mídia do álbum indisponível", "media_id", id, "error", err)
		return ""
	}
	if len(payload.Children.Data) == 0 {
		return ""
	}
	child := payload.Children.Data[0]
	return firstNonEmpty(child.MediaURL, child.ThumbnailURL)
}

func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	err := c.get(ctx, profileTimeout, "/me", map[string]string{
		"fields":       "id,username",
		"access_token": token,
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate corta em runas para não quebrar caracteres acentuados.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
