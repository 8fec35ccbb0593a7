package instagram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/tienda-virtual/internal/testutil"
)

const testBase = "https://graph.test"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(testBase, testutil.DiscardLogger())
	httpmock.ActivateNonDefault(c.HTTPClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestFetchPostsMapsEntries(t *testing.T) {
	c := newMockedClient(t)
	longCaption := strings.Repeat("á", 350)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/me/media",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "tok", req.URL.Query().Get("access_token"))
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"data": []map[string]any{
					{"id": "1", "media_type": "IMAGE", "media_url": "https://cdn/1.jpg", "permalink": "https://ig/p/1", "caption": longCaption, "timestamp": "2025-01-01T10:00:00+0000"},
					{"id": "2", "media_type": "VIDEO", "thumbnail_url": "https://cdn/2-thumb.jpg", "permalink": "https://ig/p/2"},
					{"id": "3", "media_type": "IMAGE", "media_url": "https://cdn/3.jpg"},
				},
			})
		})

	posts, err := c.FetchPosts(context.Background(), "tok", 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "https://cdn/1.jpg", posts[0].MediaURL)
	assert.Equal(t, "https://ig/p/1", posts[0].Permalink)
	assert.Equal(t, "IMAGE", posts[0].MediaType)
	assert.Equal(t, "2025-01-01T10:00:00+0000", posts[0].Timestamp)
	assert.Len(t, []rune(posts[0].Caption), MaxCaptionLen)

	assert.Equal(t, "https://cdn/2-thumb.jpg", posts[1].MediaURL, "vídeos usam a miniatura")
	assert.Empty(t, posts[1].Caption)
}

func TestFetchPostsCarouselUsesFirstChild(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/me/media",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": "10", "media_type": "CAROUSEL_ALBUM", "permalink": "https://ig/p/10"},
				{"id": "11", "media_type": "CAROUSEL_ALBUM", "permalink": "https://ig/p/11"},
			},
		}))
	httpmock.RegisterResponder(http.MethodGet, testBase+"/10",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"children": map[string]any{
				"data": []map[string]any{
					{"id": "100", "media_type": "IMAGE", "media_url": "https://cdn/100.jpg"},
					{"id": "101", "media_type": "IMAGE", "media_url": "https://cdn/101.jpg"},
				},
			},
		}))
	httpmock.RegisterResponder(http.MethodGet, testBase+"/11",
		httpmock.NewErrorResponder(errors.New("timeout")))

	posts, err := c.FetchPosts(context.Background(), "tok", 6)
	require.NoError(t, err, "falha do filho não derruba o lote")
	require.Len(t, posts, 2)
	assert.Equal(t, "https://cdn/100.jpg", posts[0].MediaURL)
	assert.Empty(t, posts[1].MediaURL)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["GET "+testBase+"/10"])
	assert.Equal(t, 1, info["GET "+testBase+"/11"])
}

func TestFetchPostsHTTPError(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/me/media",
		httpmock.NewJsonResponderOrPanic(http.StatusBadRequest, map[string]any{
			"error": map[string]any{"message": "Invalid OAuth access token", "code": 190},
		}))

	posts, err := c.FetchPosts(context.Background(), "tok", 6)
	assert.Nil(t, posts)
	require.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestFetchProfile(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/me",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"id": "42", "username": "tienda"}))

	profile, err := c.FetchProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, &Profile{ID: "42", Username: "tienda"}, profile)
}

func TestFetchProfileNetworkError(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/me",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	profile, err := c.FetchProfile(context.Background(), "tok")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ñá", truncate("ñáé", 2))
}
