package preference

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/resilience"
	"github.com/kbukum/extkit/security"
	"github.com/kbukum/extkit/security/tlstest"
)

func TestMemory(t *testing.T) {
	m := NewMemory(map[string]string{"theme": "dark"})

	if v, err := m.GetString("theme"); err != nil || v != "dark" {
		t.Fatalf("GetString = %q, %v", v, err)
	}
	if v, _ := m.GetString("missing"); v != "" {
		t.Errorf("expected empty for missing key, got %q", v)
	}
	if err := m.SetString("theme", "light"); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.GetString("theme"); v != "light" {
		t.Errorf("expected light, got %q", v)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 key, got %d", m.Len())
	}
}

func TestFileRoundTrip(t *testing.T) {
	for _, ext := range []string{"yaml", "json", "toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "prefs."+ext)

			f, err := NewFile(path)
			if err != nil {
				t.Fatalf("NewFile: %v", err)
			}
			if v, _ := f.GetString("themes.current"); v != "" {
				t.Errorf("expected empty before write, got %q", v)
			}
			if err := f.SetString("themes.current", "dark"); err != nil {
				t.Fatalf("SetString: %v", err)
			}
			if err := f.SetString("plugins", "a,b"); err != nil {
				t.Fatalf("SetString: %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("expected file written: %v", err)
			}

			reopened, err := NewFile(path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			if v, _ := reopened.GetString("themes.current"); v != "dark" {
				t.Errorf("expected dark after reopen, got %q", v)
			}
			if v, _ := reopened.GetString("plugins"); v != "a,b" {
				t.Errorf("expected a,b after reopen, got %q", v)
			}
		})
	}
}

func TestFileUnsupportedExtension(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "prefs.ini"))
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFile(path)
	if !apperrors.HasCode(err, apperrors.ErrCodePersistenceFailed) {
		t.Errorf("expected persistence failure, got %v", err)
	}
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return mr, NewRedisFromClient(rdb, "test", time.Second, logger.Nop())
}

func TestRedisStore(t *testing.T) {
	mr, store := newMiniRedis(t)

	if v, err := store.GetString("theme"); err != nil || v != "" {
		t.Fatalf("missing key: %q, %v", v, err)
	}
	if err := store.SetString("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if got, _ := mr.Get("test:theme"); got != "dark" {
		t.Errorf("expected prefixed key, got %q", got)
	}
	if v, _ := store.GetString("theme"); v != "dark" {
		t.Errorf("expected dark, got %q", v)
	}
}

func TestRedisComponent(t *testing.T) {
	mr, store := newMiniRedis(t)
	ctx := t.Context()

	if err := store.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := store.Health(ctx); h.Status != "healthy" {
		t.Errorf("expected healthy, got %+v", h)
	}

	mr.Close()
	if h := store.Health(ctx); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy after shutdown, got %+v", h)
	}
	if _, err := store.GetString("theme"); !apperrors.HasCode(err, apperrors.ErrCodePersistenceFailed) {
		t.Errorf("expected persistence failure, got %v", err)
	}
	_ = store.Stop(ctx)
}

func TestRedisStartRetries(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb := goredis.NewClient(&goredis.Options{Addr: addr, MaxRetries: -1})
	store := NewRedisFromClient(rdb, "test", 100*time.Millisecond, logger.Nop(), WithConnectRetry(resilience.RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
	}))
	t.Cleanup(func() { _ = store.Stop(context.Background()) })

	err := store.Start(t.Context())
	if err == nil || !strings.Contains(err.Error(), "gave up after 2 attempts") {
		t.Fatalf("expected retries to give up, got %v", err)
	}

	if err := mr.StartAddr(addr); err != nil {
		t.Skipf("cannot rebind %s: %v", addr, err)
	}
	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("Start after the server came back: %v", err)
	}
}

func TestRedisStartRetriesPingTimeout(t *testing.T) {
	// accepts connections but never answers, so every ping times out
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	rdb := goredis.NewClient(&goredis.Options{Addr: ln.Addr().String(), MaxRetries: -1})
	store := NewRedisFromClient(rdb, "test", 50*time.Millisecond, logger.Nop(), WithConnectRetry(resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	}))
	t.Cleanup(func() { _ = store.Stop(context.Background()) })

	err = store.Start(t.Context())
	if err == nil || !strings.Contains(err.Error(), "gave up after 3 attempts") {
		t.Fatalf("expected timed out pings to be retried, got %v", err)
	}
}

func TestPingRetryable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retryIf := pingRetryable(ctx)

	timeout := fmt.Errorf("dial: %w", context.DeadlineExceeded)
	if !retryIf(timeout) {
		t.Error("a per-ping timeout must be retried while the caller is alive")
	}
	if !retryIf(errors.New("connection refused")) {
		t.Error("transport errors must be retried")
	}
	if retryIf(apperrors.New(apperrors.ErrCodeInvalidInput, "bad")) {
		t.Error("non-retryable app errors must stop the loop")
	}

	cancel()
	if retryIf(timeout) {
		t.Error("a cancelled caller must stop the loop")
	}
}

func TestRedisTLS(t *testing.T) {
	certs := tlstest.Generate(t)
	mr, err := miniredis.RunTLS(&tls.Config{Certificates: []tls.Certificate{certs.Server}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)

	store, err := NewRedis(RedisConfig{
		Addr: mr.Addr(),
		TLS:  security.TLSConfig{Enabled: true, CAFile: certs.CAFile},
	}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Stop(context.Background()) })
	if err := store.Start(t.Context()); err != nil {
		t.Fatalf("Start over TLS: %v", err)
	}
	if err := store.SetString("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if got, _ := mr.Get("extkit:theme"); got != "dark" {
		t.Fatalf("expected value stored over TLS, got %q", got)
	}

	_, err = NewRedis(RedisConfig{TLS: security.TLSConfig{Enabled: true, CAFile: "/missing.pem"}}, logger.Nop())
	if err == nil {
		t.Fatal("expected error for a missing CA file")
	}
}

func TestRedisConfig(t *testing.T) {
	var cfg RedisConfig
	cfg.ApplyDefaults()
	if cfg.Addr != "localhost:6379" || cfg.Timeout != "2s" || cfg.Prefix != "extkit" || cfg.ConnectAttempts != 3 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	cfg.Timeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid timeout error")
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{Backend: BackendMemory}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("expected memory store, got %T", s)
	}

	s, err = Open(Config{File: filepath.Join(t.TempDir(), "p.yaml")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*File); !ok {
		t.Errorf("expected file store by default, got %T", s)
	}

	if _, err := Open(Config{Backend: "etcd"}, nil); err == nil {
		t.Error("expected unknown backend error")
	}
}

type failingStore struct{}

func (failingStore) GetString(string) (string, error) { return "", errors.New("disk gone") }
func (failingStore) SetString(string, string) error   { return errors.New("disk gone") }

func TestGuardedDegrades(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "debug", Format: logger.FormatJSON, Writer: &buf}, "test")
	g := Guard(failingStore{}, log, nil)

	if v := g.Get("theme"); v != "" {
		t.Errorf("expected fallback to empty, got %q", v)
	}
	if g.Set("theme", "dark") {
		t.Error("expected failed write")
	}
	out := buf.String()
	if strings.Count(out, `"level":"warn"`) != 2 || !strings.Contains(out, `"pref_key":"theme"`) {
		t.Errorf("expected two warnings with key field, got:\n%s", out)
	}
}

func TestGuardedPassThrough(t *testing.T) {
	g := Guard(NewMemory(nil), logger.Nop(), nil)
	if !g.Set("k", "v") || g.Get("k") != "v" {
		t.Error("expected write-through")
	}
	if Guard(nil, logger.Nop(), nil).Get("k") != "" {
		t.Error("nil store reads as empty")
	}
}
