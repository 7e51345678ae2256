package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kuctl/internal/config"
	"kuctl/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	CType  string
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body), CType: r.Header.Get("Content-Type")})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.GetDefaultConfig().Agent
	cfg.URL = srv.URL
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c, &reqs
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	cfg := config.GetDefaultConfig().Agent
	for _, u := range []string{"", "device:8181/x", "://"} {
		cfg.URL = u
		_, err := NewClient(cfg)
		assert.Error(t, err, "url %q", u)
	}
}

func TestClient_URL(t *testing.T) {
	cfg := config.GetDefaultConfig().Agent
	cfg.URL = "http://device:8181/ku/"
	c, err := NewClient(cfg)
	require.NoError(t, err)

	assert.Equal(t, "http://device:8181/ku/config", c.URL("/config"))
	assert.Equal(t, "http://device:8181/ku/messages", c.PushURL())
}

func TestClient_FetchConfig(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"opts":{"preferSDCard":true,"directConn":[],"directConnIndex":-1,
			"thumbnail":{"generateLevel":"full","resizeAlgorithm":"bilinear","jpegQuality":80}}}`)
	})

	doc, err := c.FetchConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, doc.Opts.PreferSDCard)
	assert.Equal(t, 80, doc.Opts.Thumbnail.JPEGQuality)
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodGet, (*reqs)[0].Method)
	assert.Equal(t, "/config", (*reqs)[0].Path)
}

func TestClient_FetchNon200IsStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FetchAuth(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "/calibreauth", se.Path)
	assert.Equal(t, http.StatusOK, se.Want)
}

func TestClient_FetchMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"subtitleFields": [`)
	})

	_, err := c.FetchLibraryInfo(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "decoding body")
}

func TestClient_Submits(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantPath string
		wantBody string
	}{
		{
			name: "config",
			call: func(c *Client) error {
				return c.SubmitConfig(context.Background(), protocol.ConfigDocument{Opts: protocol.Options{
					ExcludeFormats:  []string{},
					DirectConn:      []protocol.Connection{{Name: "Home", Host: "192.168.1.5", Port: 9090}},
					DirectConnIndex: 0,
					Thumbnail:       protocol.Thumbnail{GenerateLevel: "full", ResizeAlgorithm: "bilinear", JPEGQuality: 50},
				}})
			},
			wantPath: "/config",
			wantBody: `{"opts":{"preferSDCard":false,"preferKepub":false,"enableDebug":false,"excludeFormats":[],
				"thumbnail":{"generateLevel":"full","resizeAlgorithm":"bilinear","jpegQuality":50},
				"directConn":[{"name":"Home","host":"192.168.1.5","port":9090}],"directConnIndex":0}}`,
		},
		{
			name: "auth",
			call: func(c *Client) error {
				return c.SubmitAuth(context.Background(), protocol.AuthDocument{LibraryName: "Books", Password: "s3cret"})
			},
			wantPath: "/calibreauth",
			wantBody: `{"libraryName":"Books","password":"s3cret"}`,
		},
		{
			name: "instance",
			call: func(c *Client) error {
				return c.SelectInstance(context.Background(), protocol.Instance{Address: "10.0.0.2:9090", Description: "desk"})
			},
			wantPath: "/calibreinstance",
			wantBody: `{"address":"10.0.0.2:9090","description":"desk"}`,
		},
		{
			name: "library info",
			call: func(c *Client) error {
				return c.SubmitLibraryInfo(context.Background(), protocol.LibraryInfo{SubtitleFields: []string{"", "tags"}, CurrSel: 1})
			},
			wantPath: "/libinfo",
			wantBody: `{"subtitleFields":["","tags"],"currSel":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			require.NoError(t, tt.call(c))
			require.Len(t, *reqs, 1)
			got := (*reqs)[0]
			assert.Equal(t, http.MethodPost, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, "application/json", got.CType)
			assert.JSONEq(t, tt.wantBody, got.Body)
		})
	}
}

func TestClient_SubmitRequires204(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})
		err := c.SubmitConfig(context.Background(), protocol.ConfigDocument{})
		assert.True(t, IsStatus(err, code), "status %d", code)
	}
}

func TestClient_ExitAndDisconnect(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ucexit" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.Exit(context.Background()))
	err := c.Disconnect(context.Background())
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))

	require.Len(t, *reqs, 2)
	assert.Equal(t, "/exit", (*reqs)[0].Path)
	assert.Equal(t, http.MethodGet, (*reqs)[1].Method)
}

func TestClient_ContextDeadline(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.FetchInstances(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
