package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pawbook/go-admin-client/apiclient"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetAppName() string { return "PawBook Admin" }

func (c testConfig) GetAppVersion() string { return "1.0.0-test" }

func (c testConfig) GetEnv() string { return "test" }

func (c testConfig) GetLogLevel() string { return "disabled" }

func (c testConfig) GetCredentialsFile() string { return "" }

func (c testConfig) GetAPIBaseURL() string { return c.baseURL }

func (c testConfig) GetRequestTimeout() time.Duration { return 5 * time.Second }

func (c testConfig) GetRefreshTimeout() time.Duration { return 5 * time.Second }

type fakeSession struct {
	lock         sync.Mutex
	token        string
	refreshToken string
	refreshOK    bool
	refreshCalls atomic.Int32
	refreshBlock chan struct{}
}

func newFakeSession(token string) *fakeSession {
	return &fakeSession{token: token, refreshOK: true, refreshToken: "t2"}
}

func (s *fakeSession) IsAuthenticated() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.token != ""
}

func (s *fakeSession) AccessToken() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.token
}

func (s *fakeSession) Refresh(_ context.Context) bool {
	if s.refreshBlock != nil {
		<-s.refreshBlock
	}
	s.refreshCalls.Add(1)
	if !s.refreshOK {
		return false
	}
	s.lock.Lock()
	s.token = s.refreshToken
	s.lock.Unlock()
	return true
}

type fakeNavigator struct {
	lock      sync.Mutex
	current   string
	redirects []string
}

func (n *fakeNavigator) CurrentRouteName() string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.current
}

func (n *fakeNavigator) Redirect(name string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.redirects = append(n.redirects, name)
	n.current = name
}

func newTestClient(serverURL string, session apiclient.Session, navigator apiclient.Navigator) *apiclient.Client {
	client := apiclient.New(testConfig{baseURL: serverURL}, zerolog.Nop(), apiclient.WithNavigator(navigator))
	client.SetSession(session)
	return client
}

func TestRequestCarriesBearerAndTracingHeaders(t *testing.T) {
	var seen http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"dashboard"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeSession("t1"), nil)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "/admin/stats", &out))
	require.Equal(t, "dashboard", out.Name)

	require.Equal(t, "Bearer t1", seen.Get("Authorization"))
	require.True(t, strings.HasPrefix(seen.Get("X-Request-ID"), "req_"))
	require.Equal(t, "1.0.0-test", seen.Get("X-Client-Version"))
	require.Equal(t, "test", seen.Get("X-Client-Environment"))
	require.Equal(t, "application/json", seen.Get("Accept"))
}

func TestWithoutAuthSkipsBearer(t *testing.T) {
	var seen http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeSession("t1"), nil)

	require.NoError(t, client.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.c"}, nil, apiclient.WithoutAuth()))
	require.Empty(t, seen.Get("Authorization"))
}

func TestUnauthorizedRefreshesAndReplaysOnce(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer t2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	session := newFakeSession("t1")
	client := newTestClient(server.URL, session, nil)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.Get(context.Background(), "/admin/users", &out))
	require.True(t, out.OK)
	require.Equal(t, int32(2), requests.Load())
	require.Equal(t, int32(1), session.refreshCalls.Load())
}

func TestConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	const callers = 5

	allRejected := make(chan struct{})
	var rejected atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t2" {
			if rejected.Add(1) == callers {
				close(allRejected)
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	// The refresh does not settle until every caller has seen its 401, so
	// all of them must share the single in-flight refresh.
	session := newFakeSession("t1")
	session.refreshBlock = allRejected
	client := newTestClient(server.URL, session, nil)

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/admin/bookings", nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	require.Equal(t, int32(1), session.refreshCalls.Load())
}

func TestRefreshFailureRejectsAllAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := newFakeSession("t1")
	session.refreshOK = false
	navigator := &fakeNavigator{current: "dashboard"}
	client := newTestClient(server.URL, session, navigator)

	err := client.Get(context.Background(), "/admin/users", nil)
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.IsAuthentication())
	require.Equal(t, []string{"login"}, navigator.redirects)
}

func TestRedirectSkippedOnLoginRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := newFakeSession("t1")
	session.refreshOK = false
	navigator := &fakeNavigator{current: "login"}
	client := newTestClient(server.URL, session, navigator)

	err := client.Get(context.Background(), "/admin/users", nil)
	require.Error(t, err)
	require.Empty(t, navigator.redirects)
}

func TestUnauthorizedWithoutAuthPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials","code":"INVALID_CREDENTIALS"}`))
	}))
	defer server.Close()

	session := newFakeSession("t1")
	client := newTestClient(server.URL, session, nil)

	err := client.Post(context.Background(), "/auth/login", map[string]string{}, nil, apiclient.WithoutAuth())
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.False(t, apiErr.IsAuthentication())
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Zero(t, session.refreshCalls.Load())
}

func TestServerErrorNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email is required","code":"VALIDATION_ERROR"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeSession("t1"), nil)

	err := client.Post(context.Background(), "/admin/users", map[string]string{}, nil)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Email is required", apiErr.Message)
	require.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestServerErrorWithoutJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeSession("t1"), nil)

	err := client.Get(context.Background(), "/admin/stats", nil)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "HTTP Error 500", apiErr.Message)
	require.Equal(t, "500", apiErr.Code)
	require.Equal(t, "upstream exploded", apiErr.Details)
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := newTestClient(serverURL, newFakeSession("t1"), nil)

	err := client.Get(context.Background(), "/admin/stats", nil)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apiclient.CodeNetworkError, apiErr.Code)
}

func TestCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeSession("t1"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Get(ctx, "/admin/stats", nil)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apiclient.CodeCancelled, apiErr.Code)
}

func TestUploadSendsMultipart(t *testing.T) {
	var contentType, fileName, content string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		file, header, err := r.FormFile("avatar")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		fileName = header.Filename
		data, _ := io.ReadAll(file)
		content = string(data)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "/media/avatar.png"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, newFakeSession("t1"), nil)

	var out struct {
		URL string `json:"url"`
	}
	err := client.Upload(context.Background(), "/admin/users/user-1/avatar", "avatar", "avatar.png", strings.NewReader("png-bytes"), &out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(contentType, "multipart/form-data"))
	require.Equal(t, "avatar.png", fileName)
	require.Equal(t, "png-bytes", content)
	require.Equal(t, "/media/avatar.png", out.URL)
}
