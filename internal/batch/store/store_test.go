package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"creditrisk/pkg/platform/sentinel"
	"creditrisk/pkg/testutil"
)

type MemoryStoreSuite struct {
	suite.Suite
	now   time.Time
	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemoryStore(time.Minute, WithClock(func() time.Time { return s.now }))
}

func (s *MemoryStoreSuite) TestSaveAndLoad() {
	ctx := context.Background()
	data := []byte("a,b\n1,2\n")
	s.Require().NoError(s.store.Save(ctx, "id-1", data))

	got, err := s.store.Load(ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(data, got)

	s.Run("stored bytes are isolated from the caller", func() {
		data[0] = 'z'
		got[1] = 'z'
		again, err := s.store.Load(ctx, "id-1")
		s.Require().NoError(err)
		s.Equal([]byte("a,b\n1,2\n"), again)
	})
}

func (s *MemoryStoreSuite) TestUnknownID() {
	_, err := s.store.Load(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, "id-1", []byte("x")))

	s.now = s.now.Add(59 * time.Second)
	_, err := s.store.Load(ctx, "id-1")
	s.NoError(err)

	s.now = s.now.Add(time.Second)
	_, err = s.store.Load(ctx, "id-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Run("expired entries are dropped on the next save", func() {
		s.Require().NoError(s.store.Save(ctx, "id-2", []byte("y")))
		s.Equal(1, s.store.Len())
	})
}

func (s *MemoryStoreSuite) TestConcurrentAccess() {
	res := testutil.RunConcurrent(20, func(i int) error {
		id := string(rune('a' + i))
		if err := s.store.Save(context.Background(), id, []byte(id)); err != nil {
			return err
		}
		_, err := s.store.Load(context.Background(), id)
		return err
	})
	s.Equal(int32(20), res.Successes)
	s.Equal(20, s.store.Len())
}

// fakeRedis records SET calls and answers GET from memory.
type fakeRedis struct {
	values  map[string]string
	lastTTL time.Duration
	err     error
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.lastTTL = expiration
	f.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

type RedisStoreSuite struct {
	suite.Suite
	client *fakeRedis
	store  *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	s.client = &fakeRedis{values: map[string]string{}}
	s.store = NewRedisStore(s.client, 10*time.Minute)
}

func (s *RedisStoreSuite) TestSaveUsesPrefixedKeyAndTTL() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, "abc", []byte("csv")))
	s.Equal(10*time.Minute, s.client.lastTTL)
	s.Equal("csv", s.client.values["creditrisk:batch:abc"])

	got, err := s.store.Load(ctx, "abc")
	s.Require().NoError(err)
	s.Equal([]byte("csv"), got)
}

func (s *RedisStoreSuite) TestMiss() {
	_, err := s.store.Load(context.Background(), "nope")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestFailuresAreUnavailable() {
	s.client.err = errors.New("connection refused")

	err := s.store.Save(context.Background(), "abc", []byte("csv"))
	s.ErrorIs(err, sentinel.ErrUnavailable)

	_, err = s.store.Load(context.Background(), "abc")
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.NotErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDefaults() {
	s.Equal(DefaultTTL, NewRedisStore(s.client, 0).ttl)
	s.Panics(func() { NewRedisStore(nil, time.Minute) })
	s.Equal(DefaultTTL, NewMemoryStore(0).ttl)
}
