package utils

import (
	"sync"
	"testing"
	"time"

	"menu-backend/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(ttl)
	store.now = clock.Now
	return store, clock
}

func TestCreateSession(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	restaurantID := uuid.New()

	sess := store.Create(restaurantID, nil)
	if sess.ID == uuid.Nil {
		t.Fatal("expected session id")
	}
	if sess.Cart == nil || sess.Cart.Len() != 0 {
		t.Fatal("expected an empty cart")
	}

	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Fatal("expected to find the created session")
	}
}

func TestSessionsHaveSeparateCarts(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	a := store.Create(uuid.New(), nil)
	b := store.Create(uuid.New(), nil)

	p := &cart.Product{ID: "1", Name: "Tea", Price: decimal.NewFromInt(2)}
	if _, err := a.Cart.AddItem(p, cart.Selection{}, 1); err != nil {
		t.Fatal(err)
	}
	if b.Cart.Len() != 0 {
		t.Error("carts must not be shared between sessions")
	}
}

func TestTouchKeepsSessionAlive(t *testing.T) {
	store, clock := newTestStore(time.Hour)
	sess := store.Create(uuid.New(), nil)

	clock.Advance(50 * time.Minute)
	if got := store.Touch(sess.ID, sess.RestaurantID, nil); got != sess {
		t.Fatal("expected the same session")
	}
	clock.Advance(50 * time.Minute)
	if n := store.CleanupIdle(); n != 0 {
		t.Errorf("expected no eviction, got %d", n)
	}
}

func TestCleanupIdleEvicts(t *testing.T) {
	store, clock := newTestStore(time.Hour)
	old := store.Create(uuid.New(), nil)
	clock.Advance(2 * time.Hour)
	fresh := store.Create(uuid.New(), nil)

	if _, ok := store.Get(old.ID); ok {
		t.Error("idle session should be evicted on create")
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Error("fresh session should remain")
	}
}

func TestTouchRecreatesEvictedSession(t *testing.T) {
	store, clock := newTestStore(time.Hour)
	restaurantID := uuid.New()
	sess := store.Create(restaurantID, nil)
	p := &cart.Product{ID: "1", Name: "Tea", Price: decimal.NewFromInt(2)}
	sess.Cart.AddItem(p, cart.Selection{}, 1)

	clock.Advance(3 * time.Hour)
	got := store.Touch(sess.ID, restaurantID, nil)
	if got == sess {
		t.Fatal("expected a new session after idle expiry")
	}
	if got.ID != sess.ID || got.Cart.Len() != 0 {
		t.Errorf("expected same id with empty cart, got %s with %d lines", got.ID, got.Cart.Len())
	}
}

func TestRunJanitorStops(t *testing.T) {
	store, clock := newTestStore(time.Millisecond)
	store.Create(uuid.New(), nil)
	clock.Advance(time.Second)

	stop := make(chan struct{})
	evicted := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		store.RunJanitor(5*time.Millisecond, stop, func(n int) {
			select {
			case evicted <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-evicted:
		if n != 1 {
			t.Errorf("expected 1 eviction, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("janitor did not run")
	}
	close(stop)
	<-done
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}
