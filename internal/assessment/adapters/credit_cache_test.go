package adapters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"htb-gateway/internal/assessment/ports"
	"htb-gateway/pkg/platform/audit"
)

type countingCredit struct {
	calls  int
	report *ports.CreditReport
	err    error
}

func (c *countingCredit) CheckCredit(_ context.Context, personalID string) (*ports.CreditReport, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	r := *c.report
	r.PersonalID = personalID
	return &r, nil
}

type CachedCreditSuite struct {
	suite.Suite
	server   *miniredis.Miniredis
	client   *redis.Client
	next     *countingCredit
	subjects *audit.SubjectHasher
	cache    *CachedCredit
}

func TestCachedCreditSuite(t *testing.T) {
	suite.Run(t, new(CachedCreditSuite))
}

func (s *CachedCreditSuite) SetupTest() {
	s.server = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.server.Addr()})
	s.T().Cleanup(func() { _ = s.client.Close() })
	s.next = &countingCredit{report: &ports.CreditReport{
		Score:     710,
		Pass:      true,
		Bureau:    "ICB",
		CheckedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}}
	subjects, err := audit.NewSubjectHasher([]byte(strings.Repeat("s", audit.MinSubjectKeyLen)))
	s.Require().NoError(err)
	s.subjects = subjects
	s.cache = NewCachedCredit(s.next, s.client, time.Hour, subjects)
}

func (s *CachedCreditSuite) key(personalID string) string {
	return creditKeyPrefix + s.subjects.Hash(personalID)
}

func (s *CachedCreditSuite) TestMissThenHit() {
	ctx := context.Background()

	first, err := s.cache.CheckCredit(ctx, "1234567A")
	s.Require().NoError(err)
	second, err := s.cache.CheckCredit(ctx, "1234567A")
	s.Require().NoError(err)

	s.Equal(1, s.next.calls)
	s.Equal(first.Score, second.Score)
	s.Equal(first.Bureau, second.Bureau)
	s.True(first.CheckedAt.Equal(second.CheckedAt))
	s.Equal("1234567A", second.PersonalID)
}

func (s *CachedCreditSuite) TestKeyHoldsHashedIdentifier() {
	_, err := s.cache.CheckCredit(context.Background(), "1234567A")
	s.Require().NoError(err)

	s.True(s.server.Exists(s.key("1234567A")))
	s.False(s.server.Exists(creditKeyPrefix + "1234567A"))
	s.Equal(time.Hour, s.server.TTL(s.key("1234567A")))
}

func (s *CachedCreditSuite) TestKeyChangesWithHashKey() {
	other, err := audit.NewSubjectHasher([]byte(strings.Repeat("o", audit.MinSubjectKeyLen)))
	s.Require().NoError(err)
	cache := NewCachedCredit(s.next, s.client, time.Hour, other)

	_, err = cache.CheckCredit(context.Background(), "1234567A")
	s.Require().NoError(err)

	s.True(s.server.Exists(creditKeyPrefix + other.Hash("1234567A")))
	s.False(s.server.Exists(s.key("1234567A")))
}

func (s *CachedCreditSuite) TestEntryExpires() {
	ctx := context.Background()
	_, err := s.cache.CheckCredit(ctx, "1234567A")
	s.Require().NoError(err)

	s.server.FastForward(2 * time.Hour)
	_, err = s.cache.CheckCredit(ctx, "1234567A")
	s.Require().NoError(err)
	s.Equal(2, s.next.calls)
}

func (s *CachedCreditSuite) TestCorruptEntryFallsThrough() {
	s.Require().NoError(s.server.Set(s.key("1234567A"), "garbage"))

	report, err := s.cache.CheckCredit(context.Background(), "1234567A")
	s.Require().NoError(err)
	s.Equal(710, report.Score)
	s.Equal(1, s.next.calls)
}

func (s *CachedCreditSuite) TestErrorsAreNotCached() {
	s.next.err = errors.New("bureau down")

	_, err := s.cache.CheckCredit(context.Background(), "1234567A")
	s.Require().Error(err)
	s.False(s.server.Exists(s.key("1234567A")))
}

func (s *CachedCreditSuite) TestRedisDownBypassesCache() {
	s.server.Close()

	report, err := s.cache.CheckCredit(context.Background(), "1234567A")
	s.Require().NoError(err)
	s.Equal(710, report.Score)
	s.Equal(1, s.next.calls)
}
