package pool

import (
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func countingFactory(created *int) Factory {
	return func(id Identity, p Params) (goredis.UniversalClient, error) {
		*created++
		return goredis.NewClient(&goredis.Options{Addr: id.Addr()}), nil
	}
}

func TestRegistrySharesPoolByIdentity(t *testing.T) {
	var created int
	reg := NewRegistry(countingFactory(&created))

	id := Identity{Host: "localhost", Port: 6379, DB: 1}
	a, err := reg.GetOrCreate(id, Params{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	b, err := reg.GetOrCreate(id, Params{})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if a != b {
		t.Fatal("identical identities must share one pool")
	}
	if created != 1 {
		t.Fatalf("created %d pools, want 1", created)
	}

	other := id
	other.DB = 2
	if _, err := reg.GetOrCreate(other, Params{}); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created != 2 {
		t.Fatalf("created %d pools, want 2 after distinct identity", created)
	}
}

func TestRegistryConcurrentSingleWinner(t *testing.T) {
	var created int
	reg := NewRegistry(countingFactory(&created))
	id := Identity{Host: "localhost", Port: 6379}

	const n = 32
	pools := make([]goredis.UniversalClient, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			c, err := reg.GetOrCreate(id, Params{})
			if err != nil {
				t.Errorf("GetOrCreate: %v", err)
				return
			}
			pools[i] = c
		}(i)
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("created %d pools under contention, want 1", created)
	}
	for i := 1; i < n; i++ {
		if pools[i] != pools[0] {
			t.Fatal("all racers must observe the winner's pool")
		}
	}
}

func TestParamsMergeCallerWins(t *testing.T) {
	def := DefaultParams()

	merged := Params{}.Merge(def)
	if merged.ConnectTimeout != 2*time.Second || merged.SocketTimeout != 3*time.Second || merged.MaxConnections != 10240 {
		t.Fatalf("defaults not applied: %+v", merged)
	}
	if merged.RetryOnTimeout {
		t.Fatal("RetryOnTimeout must default to false")
	}
	if merged.SocketKeepAlive != nil {
		t.Fatal("SocketKeepAlive must default to unset")
	}

	ka := true
	caller := Params{
		ConnectTimeout:  time.Second,
		MaxConnections:  64,
		SocketKeepAlive: &ka,
	}
	merged = caller.Merge(def)
	if merged.ConnectTimeout != time.Second || merged.MaxConnections != 64 {
		t.Fatalf("caller overrides lost: %+v", merged)
	}
	if merged.SocketTimeout != 3*time.Second {
		t.Fatalf("unset field not defaulted: %+v", merged)
	}
	if merged.SocketKeepAlive == nil || !*merged.SocketKeepAlive {
		t.Fatal("caller keepalive lost")
	}
}

func TestResolveParser(t *testing.T) {
	for _, name := range []string{"", "default", "resp3"} {
		if v, err := ResolveParser(name); err != nil || v != 3 {
			t.Fatalf("ResolveParser(%q) = %d, %v", name, v, err)
		}
	}
	if v, err := ResolveParser("resp2"); err != nil || v != 2 {
		t.Fatalf("ResolveParser(resp2) = %d, %v", v, err)
	}
	if _, err := ResolveParser("hiredis"); err == nil {
		t.Fatal("unknown parser selector must fail")
	}
}

func TestResolvePool(t *testing.T) {
	for _, name := range []string{"", "default", "lifo"} {
		if fifo, err := ResolvePool(name); err != nil || fifo {
			t.Fatalf("ResolvePool(%q) = %v, %v", name, fifo, err)
		}
	}
	if fifo, err := ResolvePool("fifo"); err != nil || !fifo {
		t.Fatalf("ResolvePool(fifo) = %v, %v", fifo, err)
	}
	if _, err := ResolvePool("blocking"); err == nil {
		t.Fatal("unknown pool selector must fail")
	}
}

func TestIdentityAddr(t *testing.T) {
	tcp := Identity{Host: "cache.internal", Port: 6380}
	if tcp.Addr() != "cache.internal:6380" {
		t.Fatalf("Addr = %q", tcp.Addr())
	}
	sock := Identity{SocketPath: "/var/run/redis.sock"}
	if sock.Addr() != "/var/run/redis.sock" {
		t.Fatalf("Addr = %q", sock.Addr())
	}
}
