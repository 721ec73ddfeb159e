package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hszk-dev/linkedin-dl/internal/domain/repository"
)

func TestDefaultClientConfig(t *testing.T) {
	cfg := DefaultClientConfig()

	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want 5s", cfg.ProbeTimeout)
	}
	if cfg.ConnectTimeout != 30*time.Second {
		t.Errorf("ConnectTimeout = %v, want 30s", cfg.ConnectTimeout)
	}
}

func TestClient_Probe(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int64
		wantErr error
	}{
		{
			name: "content length reported",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("method = %s, want HEAD", r.Method)
				}
				w.Header().Set("Content-Length", "123456")
				w.WriteHeader(http.StatusOK)
			},
			want: 123456,
		},
		{
			name: "no content length",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			want: 0,
		},
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantErr: repository.ErrUpstreamStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(DefaultClientConfig())
			got, err := c.Probe(context.Background(), srv.URL+"/video.mp4")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Probe() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Probe() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClient_Probe_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "42")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(DefaultClientConfig())
	got, err := c.Probe(context.Background(), srv.URL+"/redirect")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Probe() = %d, want 42", got)
	}
}

func TestClient_Open_RedirectToDisallowedHost(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("redirect target should not be requested")
	}))
	defer final.Close()

	// Same listener, reached by a hostname that is not on the list.
	target := strings.Replace(final.URL, "127.0.0.1", "localhost", 1)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target+"/final", http.StatusFound)
	}))
	defer origin.Close()

	c := NewClient(ClientConfig{AllowedHosts: []string{"127.0.0.1"}})
	_, err := c.Open(context.Background(), origin.URL+"/v.mp4")

	if !errors.Is(err, repository.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
	if err != nil && !strings.Contains(err.Error(), "not allowed") {
		t.Errorf("error = %v, want host rejection in message", err)
	}
}

func TestClient_Probe_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(ClientConfig{ProbeTimeout: 20 * time.Millisecond})
	_, err := c.Probe(context.Background(), srv.URL)

	if !errors.Is(err, repository.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestClient_Probe_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{UserAgent: "test-agent/1.0"})
	if _, err := c.Probe(context.Background(), srv.URL); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q, want test-agent/1.0", gotUA)
	}
}

func TestClient_Open(t *testing.T) {
	payload := strings.Repeat("0123456789", 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", "20000")
		_, _ = io.WriteString(w, payload)
	}))
	defer srv.Close()

	c := NewClient(DefaultClientConfig())
	stream, err := c.Open(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer stream.Body.Close()

	if stream.ContentLength != 20000 {
		t.Errorf("ContentLength = %d, want 20000", stream.ContentLength)
	}
	if stream.ContentType != "video/mp4" {
		t.Errorf("ContentType = %q", stream.ContentType)
	}

	body, err := io.ReadAll(stream.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != payload {
		t.Errorf("body length = %d, want %d", len(body), len(payload))
	}
}

func TestClient_Open_UnknownLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		_, _ = io.WriteString(w, "chunk")
	}))
	defer srv.Close()

	c := NewClient(DefaultClientConfig())
	stream, err := c.Open(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer stream.Body.Close()

	if stream.ContentLength != -1 {
		t.Errorf("ContentLength = %d, want -1", stream.ContentLength)
	}
}

func TestClient_Open_Errors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer srv.Close()

		c := NewClient(DefaultClientConfig())
		_, err := c.Open(context.Background(), srv.URL)

		if !errors.Is(err, repository.ErrUpstreamStatus) {
			t.Errorf("error = %v, want ErrUpstreamStatus", err)
		}
		if !strings.Contains(err.Error(), "410") {
			t.Errorf("error = %v, want status code in message", err)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(ClientConfig{ConnectTimeout: time.Second})
		_, err := c.Open(context.Background(), url)

		if !errors.Is(err, repository.ErrUpstreamUnavailable) {
			t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
		}
	})
}

// endlessHandler streams small chunks until the client goes away.
func endlessHandler(started chan<- struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.WriteHeader(http.StatusOK)
		chunk := []byte(strings.Repeat("v", 1024))
		first := true
		for {
			select {
			case <-r.Context().Done():
				return
			default:
			}
			if _, err := w.Write(chunk); err != nil {
				return
			}
			w.(http.Flusher).Flush()
			if first {
				close(started)
				first = false
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestClient_Open_CancelAbortsRead(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(endlessHandler(started))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewClient(DefaultClientConfig())
	stream, err := c.Open(ctx, srv.URL)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer stream.Body.Close()

	<-started
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(io.Discard, stream.Body)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected read error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("read did not stop after context cancellation")
	}
}
