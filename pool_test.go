package mdextra

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Formatter, error)
	Release(*Formatter)
	Size() int
	Close()
} = (*FormatterPool)(nil)

func countingFactory(n *atomic.Int32) FormatterFactory {
	return func() (*Formatter, error) {
		n.Add(1)
		return NewFormatter()
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "explicit can exceed max", workers: 64, want: 64},
		{name: "zero uses GOMAXPROCS", workers: 0, want: min(max(gomaxprocs, MinPoolSize), MaxPoolSize)},
		{name: "negative uses GOMAXPROCS", workers: -3, want: min(max(gomaxprocs, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestFormatterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	var built atomic.Int32
	pool := NewFormatterPool(2, countingFactory(&built))
	defer pool.Close()

	ctx := context.Background()
	f1, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if f1 == f2 {
		t.Error("expected different formatter instances")
	}

	pool.Release(f1)
	f3, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if f3 != f1 {
		t.Error("expected to get back the released formatter")
	}
	pool.Release(f2)
	pool.Release(f3)

	if got := built.Load(); got != 2 {
		t.Errorf("factory called %d times, want 2", got)
	}
}

func TestFormatterPool_LazyCreation(t *testing.T) {
	t.Parallel()

	var built atomic.Int32
	pool := NewFormatterPool(4, countingFactory(&built))
	defer pool.Close()

	if built.Load() != 0 {
		t.Error("pool should not build formatters up front")
	}
	f, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	pool.Release(f)
	if built.Load() != 1 {
		t.Errorf("built = %d, want 1", built.Load())
	}
}

func TestFormatterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	pool := NewFormatterPool(0, func() (*Formatter, error) { return NewFormatter() })
	defer pool.Close()

	if pool.Size() != MinPoolSize {
		t.Errorf("Size() = %d, want %d", pool.Size(), MinPoolSize)
	}
}

func TestFormatterPool_FactoryError(t *testing.T) {
	t.Parallel()

	errFactory := errors.New("factory failed")
	calls := 0
	pool := NewFormatterPool(1, func() (*Formatter, error) {
		calls++
		if calls == 1 {
			return nil, errFactory
		}
		return NewFormatter()
	})
	defer pool.Close()

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, errFactory) {
		t.Fatalf("error = %v, want %v", err, errFactory)
	}
	// The failed slot is given back.
	f, err := pool.Acquire(context.Background())
	if err != nil || f == nil {
		t.Fatalf("second Acquire() = %v, %v", f, err)
	}
}

func TestFormatterPool_AcquireWaitsAndHonoursContext(t *testing.T) {
	t.Parallel()

	pool := NewFormatterPool(1, func() (*Formatter, error) { return NewFormatter() })
	defer pool.Close()

	held, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}

	done := make(chan *Formatter)
	go func() {
		f, _ := pool.Acquire(context.Background())
		done <- f
	}()
	pool.Release(held)

	select {
	case f := <-done:
		if f != held {
			t.Error("waiter should receive the released formatter")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not woken by Release")
	}
}

func TestFormatterPool_Close(t *testing.T) {
	t.Parallel()

	pool := NewFormatterPool(1, func() (*Formatter, error) { return NewFormatter() })
	f, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	pool.Close()
	pool.Close() // idempotent

	pool.Release(f) // must not panic
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("error = %v, want ErrPoolClosed", err)
	}
}

func TestFormatterPool_ConcurrentUse(t *testing.T) {
	t.Parallel()

	var built atomic.Int32
	pool := NewFormatterPool(3, countingFactory(&built))
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := pool.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			defer pool.Release(f)
			if got := f.ToHTML(context.Background(), Input{Markdown: "# hi"}); got == "" {
				t.Error("empty output")
			}
		}()
	}
	wg.Wait()

	if got := built.Load(); got > 3 {
		t.Errorf("built %d formatters, pool size is 3", got)
	}
}
