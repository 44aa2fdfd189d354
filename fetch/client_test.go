package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanGreiner33/texas-bar-scraper/config"
	"github.com/DanGreiner33/texas-bar-scraper/models"
)

func testClientConfig() config.ClientConfig {
	return config.ClientConfig{
		MinDelay:     time.Millisecond,
		MaxDelay:     time.Millisecond,
		MaxRetries:   3,
		RetryWait:    time.Millisecond,
		RetryMaxWait: 5 * time.Millisecond,
		Timeout:      5 * time.Second,
		UserAgent:    "barscrape-test",
	}
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "barscrape-test", r.Header.Get("User-Agent"))
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := New(testClientConfig())
	defer client.Close()

	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)
}

func TestClient_PostForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Austin", r.PostForm.Get("City"))
		w.Write([]byte("results"))
	}))
	defer srv.Close()

	client := New(testClientConfig())
	defer client.Close()

	body, err := client.PostForm(context.Background(), srv.URL, url.Values{"City": {"Austin"}})
	require.NoError(t, err)
	assert.Equal(t, "results", body)
}

func TestClient_RetryExhaustion(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(testClientConfig())
	defer client.Close()

	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var scrapeErr *models.ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, models.ErrCodeBadStatus, scrapeErr.Code)

	// MaxRetries bounds total attempts, not retries after the first.
	assert.EqualValues(t, 3, attempts.Load())
}

func TestClient_RetryThenSuccess(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer srv.Close()

	client := New(testClientConfig())
	defer client.Close()

	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "finally", body)
	assert.EqualValues(t, 3, attempts.Load())
}

func TestClient_PolitenessInterval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := testClientConfig()
	cfg.MinDelay = 100 * time.Millisecond
	cfg.MaxDelay = 100 * time.Millisecond

	client := New(cfg)
	defer client.Close()

	start := time.Now()
	_, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	_, err = client.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	// The second same-host request must wait out the politeness
	// interval.
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestClient_ConcurrentRequestsKeepMinDelay(t *testing.T) {
	var (
		mu       sync.Mutex
		arrivals []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := testClientConfig()
	cfg.MinDelay = 150 * time.Millisecond
	cfg.MaxDelay = 400 * time.Millisecond

	client := New(cfg)
	defer client.Close()

	const requests = 5
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Get(context.Background(), srv.URL)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, arrivals, requests)
	sort.Slice(arrivals, func(i, j int) bool { return arrivals[i].Before(arrivals[j]) })

	// Jitter must never squeeze two same-host sends inside the minimum
	// interval; a small allowance covers scheduling latency between the
	// token grant and the server seeing the request.
	for i := 1; i < requests; i++ {
		gap := arrivals[i].Sub(arrivals[i-1])
		assert.GreaterOrEqual(t, gap, 100*time.Millisecond,
			"gap %d was %v", i, gap)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := testClientConfig()
	cfg.MinDelay = time.Hour // force the limiter to block
	cfg.MaxDelay = time.Hour

	client := New(cfg)
	defer client.Close()

	// Prime the limiter so the next wait would block.
	ctx, cancel := context.WithCancel(context.Background())
	_, err := client.Get(ctx, srv.URL)
	require.NoError(t, err)

	cancel()
	_, err = client.Get(ctx, srv.URL)
	require.Error(t, err)
}

func TestClient_InvalidURL(t *testing.T) {
	client := New(testClientConfig())
	defer client.Close()

	_, err := client.Get(context.Background(), "http://bad url/%%")
	require.Error(t, err)
}
