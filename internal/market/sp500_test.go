package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const constituentsFixture = `<html><body>
<table id="constituents">
<tbody>
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td>AAPL</td><td>Apple Inc.</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td></tr>
<tr><td>BF.B</td><td>Brown-Forman</td></tr>
<tr><td>MSFT</td><td>Microsoft</td></tr>
</tbody>
</table>
</body></html>`

func TestFetchUniverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki", r.URL.Path)
		fmt.Fprint(w, constituentsFixture)
	}))
	defer server.Close()

	client := testMarketClient(t, server.URL)

	tickers, err := client.FetchUniverse(context.Background())
	require.NoError(t, err)

	// Share-class dots become dashes for the chart API.
	assert.Equal(t, []string{"AAPL", "BRK-B", "BF-B", "MSFT"}, tickers)
}

func TestFetchUniverseFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testMarketClient(t, server.URL)

	tickers, err := client.FetchUniverse(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallbackUniverse, tickers)
}

func TestFetchUniverseEmptyTableFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>maintenance</p></body></html>`)
	}))
	defer server.Close()

	client := testMarketClient(t, server.URL)

	tickers, err := client.FetchUniverse(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallbackUniverse, tickers)
}
