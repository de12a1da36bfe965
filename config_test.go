package vercache

import (
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/vercache/pool"
)

func TestOptionsFromYAML(t *testing.T) {
	doc := []byte(`
server: cache.internal:6380
namespace: app
version: 2
default_timeout: 120s
db: "3"
password: hunter2
parser_class: resp2
pool_class: fifo
pool:
  retry_on_timeout: true
  connect_timeout: 1s
  socket_timeout: 4s
  max_connections: 512
`)
	opts, err := OptionsFromYAML(doc)
	if err != nil {
		t.Fatalf("OptionsFromYAML: %v", err)
	}
	if opts.Server != "cache.internal:6380" || opts.Namespace != "app" {
		t.Fatalf("endpoint fields = %q %q", opts.Server, opts.Namespace)
	}
	if opts.Version != 2 || opts.DB == nil || *opts.DB != 3 || opts.Password != "hunter2" {
		t.Fatalf("version/db/password = %d %v %q", opts.Version, opts.DB, opts.Password)
	}
	if opts.DefaultTimeout != 120*time.Second {
		t.Fatalf("DefaultTimeout = %v", opts.DefaultTimeout)
	}
	if opts.ParserClass != "resp2" || opts.PoolClass != "fifo" {
		t.Fatalf("selectors = %q %q", opts.ParserClass, opts.PoolClass)
	}
	p := opts.PoolParams
	if !p.RetryOnTimeout || p.ConnectTimeout != time.Second || p.SocketTimeout != 4*time.Second || p.MaxConnections != 512 {
		t.Fatalf("pool params = %+v", p)
	}
}

func TestOptionsFromYAMLDatabaseZero(t *testing.T) {
	opts, err := OptionsFromYAML([]byte("db: \"0\"\n"))
	if err != nil {
		t.Fatalf("OptionsFromYAML: %v", err)
	}
	if opts.DB == nil || *opts.DB != 0 {
		t.Fatalf("DB = %v, want 0", opts.DB)
	}
}

func TestOptionsFromYAMLBadDB(t *testing.T) {
	_, err := OptionsFromYAML([]byte("db: \"not-a-number\"\n"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("bad db = %v, want ConfigError", err)
	}
}

func TestOptionsFromYAMLBadDuration(t *testing.T) {
	_, err := OptionsFromYAML([]byte("default_timeout: soon\n"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("bad duration = %v, want ConfigError", err)
	}
}

func TestNewRejectsBadPort(t *testing.T) {
	_, err := New(Options{
		Server:    "localhost:notaport",
		Namespace: "test",
		Registry:  pool.NewRegistry(nil),
	})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("bad port = %v, want ConfigError", err)
	}
}

func TestNewRejectsUnknownSelectors(t *testing.T) {
	base := Options{
		Server:    "localhost:6379",
		Namespace: "test",
		Registry:  pool.NewRegistry(nil),
	}

	bad := base
	bad.ParserClass = "hiredis"
	var cfgErr *ConfigError
	if _, err := New(bad); !errors.As(err, &cfgErr) {
		t.Fatalf("unknown parser = %v, want ConfigError", err)
	}

	bad = base
	bad.PoolClass = "blocking"
	if _, err := New(bad); !errors.As(err, &cfgErr) {
		t.Fatalf("unknown pool = %v, want ConfigError", err)
	}
}

func TestNewRequiresNamespaceAndServer(t *testing.T) {
	var cfgErr *ConfigError
	if _, err := New(Options{Server: "localhost:6379"}); !errors.As(err, &cfgErr) {
		t.Fatalf("missing namespace = %v, want ConfigError", err)
	}
	if _, err := New(Options{Namespace: "test"}); !errors.As(err, &cfgErr) {
		t.Fatalf("missing server = %v, want ConfigError", err)
	}
}

func TestNewUnixSocketServer(t *testing.T) {
	cc, err := New(Options{
		Server:    "/var/run/redis.sock",
		Namespace: "test",
		Registry:  pool.NewRegistry(nil),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cc.Server() != "/var/run/redis.sock" {
		t.Fatalf("Server = %q", cc.Server())
	}
}
