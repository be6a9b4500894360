package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// StoreSuite runs the same window semantics against both stores.
type StoreSuite struct {
	suite.Suite
	newStore func(now *time.Time) Store
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(now *time.Time) Store {
		s := NewInMemoryStore()
		s.now = func() time.Time { return *now }
		return s
	}})
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &StoreSuite{newStore: func(now *time.Time) Store {
		srv.FlushAll()
		s := NewRedisStore(client)
		s.now = func() time.Time { return *now }
		return s
	}})
}

func (s *StoreSuite) TestAdmitsUpToLimit() {
	now := t0
	store := s.newStore(&now)
	ctx := context.Background()

	for i := range 3 {
		res, err := store.Allow(ctx, "k", 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
		s.Equal(t0.Add(time.Minute), res.ResetAt)
	}

	res, err := store.Allow(ctx, "k", 3, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Zero(res.Remaining)
	s.Equal(60, res.RetryAfter(now))
}

func (s *StoreSuite) TestWindowSlides() {
	now := t0
	store := s.newStore(&now)
	ctx := context.Background()

	_, err := store.Allow(ctx, "k", 2, time.Minute)
	s.Require().NoError(err)
	now = t0.Add(30 * time.Second)
	_, err = store.Allow(ctx, "k", 2, time.Minute)
	s.Require().NoError(err)

	res, err := store.Allow(ctx, "k", 2, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)

	// the first request leaves the window, the second is still inside
	now = t0.Add(61 * time.Second)
	res, err = store.Allow(ctx, "k", 2, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Zero(res.Remaining)
	s.Equal(t0.Add(90*time.Second), res.ResetAt)
}

func (s *StoreSuite) TestKeysAreIndependent() {
	now := t0
	store := s.newStore(&now)
	ctx := context.Background()

	res, err := store.Allow(ctx, "a", 1, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
	res, err = store.Allow(ctx, "b", 1, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func TestRedisStoreReportsConnectionErrors(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	srv.Close()

	_, err := NewRedisStore(client).Allow(context.Background(), "k", 1, time.Minute)
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
}
