package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"github.com/graphlock/backend/internal/models"
)

func TestGenerateOtpCode(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 100; i++ {
		code, err := generateOtpCode(6)
		assert.NoError(t, err)
		assert.True(t, pattern.MatchString(code), "code %q is not 6 digits", code)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}

	t.Run("length drives the code range", func(t *testing.T) {
		four := regexp.MustCompile(`^\d{4}$`)
		for i := 0; i < 100; i++ {
			code, err := generateOtpCode(4)
			assert.NoError(t, err)
			assert.True(t, four.MatchString(code), "code %q is not 4 digits", code)
		}

		code, err := generateOtpCode(0)
		assert.NoError(t, err)
		assert.Len(t, code, 6)
	})
}

func TestMemoryOtpStore(t *testing.T) {
	ctx := context.Background()

	t.Run("consume is single use", func(t *testing.T) {
		store := NewMemoryOtpStore()
		assert.NoError(t, store.Put(ctx, "+919812345678", "123456", 5*time.Minute))

		code, err := store.Consume(ctx, "+919812345678")
		assert.NoError(t, err)
		assert.Equal(t, "123456", code)

		_, err = store.Consume(ctx, "+919812345678")
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)
	})

	t.Run("missing contact", func(t *testing.T) {
		store := NewMemoryOtpStore()
		_, err := store.Consume(ctx, "+910000000000")
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)
	})

	t.Run("issuing again overwrites the prior code", func(t *testing.T) {
		store := NewMemoryOtpStore()
		assert.NoError(t, store.Put(ctx, "+919812345678", "111111", 5*time.Minute))
		assert.NoError(t, store.Put(ctx, "+919812345678", "222222", 5*time.Minute))

		code, err := store.Consume(ctx, "+919812345678")
		assert.NoError(t, err)
		assert.Equal(t, "222222", code)
	})

	t.Run("expired entry is treated as absent and still consumed", func(t *testing.T) {
		store := NewMemoryOtpStore()
		now := time.Now()
		store.now = func() time.Time { return now }

		assert.NoError(t, store.Put(ctx, "+919812345678", "123456", 5*time.Minute))

		store.now = func() time.Time { return now.Add(5*time.Minute + time.Second) }
		_, err := store.Consume(ctx, "+919812345678")
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)

		// The expired entry was removed, not left behind.
		store.now = func() time.Time { return now }
		_, err = store.Consume(ctx, "+919812345678")
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)
	})

	t.Run("concurrent consumers cannot both win", func(t *testing.T) {
		store := NewMemoryOtpStore()
		assert.NoError(t, store.Put(ctx, "+919812345678", "123456", 5*time.Minute))

		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Consume(ctx, "+919812345678"); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
	})
}

func TestRedisOtpStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put sets the code with a ttl", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisOtpStore(client, "otp:")

		mock.ExpectSet("otp:+919812345678", "123456", 5*time.Minute).SetVal("OK")

		err := store.Put(ctx, "+919812345678", "123456", 5*time.Minute)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("consume fetches and deletes atomically", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisOtpStore(client, "otp:")

		mock.ExpectEval(consumeScript, []string{"otp:+919812345678"}).SetVal("123456")

		code, err := store.Consume(ctx, "+919812345678")
		assert.NoError(t, err)
		assert.Equal(t, "123456", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("consume of a missing or expired entry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisOtpStore(client, "otp:")

		mock.ExpectEval(consumeScript, []string{"otp:+919812345678"}).SetErr(redis.Nil)

		_, err := store.Consume(ctx, "+919812345678")
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)
	})

	t.Run("store outage is not reported as a missing entry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisOtpStore(client, "otp:")

		mock.ExpectEval(consumeScript, []string{"otp:+919812345678"}).
			SetErr(errors.New("connection refused"))

		_, err := store.Consume(ctx, "+919812345678")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrNoPendingOtp)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestOtpService_IssueAndVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("issued code verifies exactly once", func(t *testing.T) {
		service := NewOtpService(NewMemoryOtpStore(), LogSender{})

		code, err := service.Issue(ctx, "+919812345678")
		assert.NoError(t, err)
		assert.Len(t, code, 6)

		assert.NoError(t, service.Verify(ctx, "+919812345678", code))

		// Single use: the same code must not verify twice.
		err = service.Verify(ctx, "+919812345678", code)
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)
	})

	t.Run("wrong candidate consumes the pending code", func(t *testing.T) {
		service := NewOtpService(NewMemoryOtpStore(), LogSender{})

		code, err := service.Issue(ctx, "+919812345678")
		assert.NoError(t, err)

		err = service.Verify(ctx, "+919812345678", "000000")
		assert.ErrorIs(t, err, models.ErrInvalidOrExpiredOtp)

		// The failed attempt burned the entry; even the right code is
		// rejected now.
		err = service.Verify(ctx, "+919812345678", code)
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)
	})

	t.Run("expired code fails even when it matches", func(t *testing.T) {
		store := NewMemoryOtpStore()
		now := time.Now()
		store.now = func() time.Time { return now }
		service := NewOtpService(store, LogSender{})

		code, err := service.Issue(ctx, "+919812345678")
		assert.NoError(t, err)

		store.now = func() time.Time { return now.Add(service.CodeTTL() + time.Second) }
		err = service.Verify(ctx, "+919812345678", code)
		assert.ErrorIs(t, err, models.ErrNoPendingOtp)
	})
}
