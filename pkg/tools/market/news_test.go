package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsListingHTML = `<html><body><dl>
<dd class="articleSubject"><a href="/1">Chip exports surge</a></dd>
<dd class="articleSummary">Semiconductor shipments hit a record high.</dd>
<dd class="articleSubject"><a href="/2">Won weakens against dollar</a></dd>
<dd class="articleSummary">The currency slipped on rate expectations.</dd>
<dd class="articleSubject"><a href="/3">No summary article</a></dd>
</dl></body></html>`

func TestNewsFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, newsListingHTML)
	}))
	defer server.Close()

	source := NewHTTPNewsSource(server.URL, server.Client())
	items, err := source.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "Chip exports surge", items[0].Title)
	assert.Equal(t, "Semiconductor shipments hit a record high.", items[0].Summary)
	assert.Equal(t, "No summary article", items[2].Title)
	assert.Empty(t, items[2].Summary)
}

func TestNewsFetchCapsItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<dl>")
		for i := 0; i < 25; i++ {
			fmt.Fprintf(w, `<dd class="articleSubject"><a>Headline %d</a></dd>`, i)
		}
		fmt.Fprint(w, "</dl>")
	}))
	defer server.Close()

	source := NewHTTPNewsSource(server.URL, server.Client())
	items, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, maxNewsItems)
}

func TestNewsFetchRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, newsListingHTML)
	}))
	defer server.Close()

	source := NewHTTPNewsSource(server.URL, server.Client())
	items, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNewsFetchExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPNewsSource(server.URL, server.Client())
	_, err := source.Fetch(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(newsRetries+1), calls.Load())
}

func TestNewsFetchEmptyListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>maintenance page</body></html>")
	}))
	defer server.Close()

	source := NewHTTPNewsSource(server.URL, server.Client())
	_, err := source.Fetch(context.Background())
	assert.Error(t, err)
}
