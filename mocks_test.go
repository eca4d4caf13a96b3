package vend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	vend "github.com/goliatone/go-vend"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	baseURL   string
	loginPath string
}

func (c testConfig) GetBaseURL() string        { return c.baseURL }
func (c testConfig) GetTimeout() time.Duration { return 5 * time.Second }
func (c testConfig) GetUserAgent() string      { return "vend-test" }

func (c testConfig) GetLoginPath() string {
	if c.loginPath == "" {
		return vend.DefaultLoginPath
	}
	return c.loginPath
}

type recordingNavigator struct {
	mu      sync.Mutex
	targets []string
}

func (n *recordingNavigator) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *recordingNavigator) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

type storageCall struct {
	op     string
	keys   []string
	values map[string]string
}

// recordingStorage wraps MemoryStorage and records every mutating call.
type recordingStorage struct {
	*vend.MemoryStorage
	mu    sync.Mutex
	calls []storageCall
}

func newRecordingStorage(values map[string]string) *recordingStorage {
	return &recordingStorage{MemoryStorage: vend.NewMemoryStorage(values)}
}

func (s *recordingStorage) Save(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	copied := map[string]string{}
	for k, v := range values {
		copied[k] = v
	}
	s.calls = append(s.calls, storageCall{op: "save", values: copied})
	s.mu.Unlock()
	return s.MemoryStorage.Save(ctx, values)
}

func (s *recordingStorage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	s.calls = append(s.calls, storageCall{op: "delete", keys: append([]string(nil), keys...)})
	s.mu.Unlock()
	return s.MemoryStorage.Delete(ctx, keys...)
}

func (s *recordingStorage) Calls() []storageCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storageCall(nil), s.calls...)
}

func (s *recordingStorage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

var errStorageDown = errors.New("storage down")

type failingStorage struct{}

func (failingStorage) Load(context.Context) (map[string]string, error) { return nil, errStorageDown }
func (failingStorage) Save(context.Context, map[string]string) error  { return errStorageDown }
func (failingStorage) Delete(context.Context, ...string) error         { return errStorageDown }

type logCall struct {
	level   string
	message string
	args    []any
}

// captureLogger records log calls. onMessage, when set, runs after each
// call is recorded.
type captureLogger struct {
	mu        sync.Mutex
	calls     []logCall
	onMessage func(message string)
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.mu.Lock()
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
	hook := l.onMessage
	l.mu.Unlock()

	if hook != nil {
		hook(message)
	}
}

func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Warn(message string, args ...any)  { l.record("warn", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }

func (l *captureLogger) levels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.calls))
	for _, c := range l.calls {
		out = append(out, c.level)
	}
	return out
}

type fixture struct {
	server    *httptest.Server
	storage   *recordingStorage
	navigator *recordingNavigator
	session   *vend.SessionStore
	client    *vend.Client
}

func newFixture(t *testing.T, handler http.Handler, seed map[string]string, opts ...vend.Option) *fixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := &fixture{
		server:    srv,
		storage:   newRecordingStorage(seed),
		navigator: &recordingNavigator{},
	}
	f.session = vend.NewSessionStore(context.Background(), f.storage,
		vend.WithNavigator(f.navigator),
		vend.WithSessionLogger(vend.NopLogger()),
	)

	opts = append([]vend.Option{vend.WithLogger(vend.NopLogger())}, opts...)
	client, err := vend.NewClient(testConfig{baseURL: srv.URL}, f.session, opts...)
	require.NoError(t, err)
	f.client = client
	return f
}
