package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/graphlock/backend/internal/config"
	"github.com/graphlock/backend/internal/models"
)

// OtpStore is a TTL-capable keyed store holding at most one live code
// per contact. Consume must be atomic: of two concurrent consumers for
// the same contact, at most one may observe the code.
type OtpStore interface {
	Put(ctx context.Context, contact, code string, ttl time.Duration) error
	Consume(ctx context.Context, contact string) (string, error)
}

// consumeScript fetches and deletes the code in a single round trip so
// a code can never be observed twice.
const consumeScript = `local v = redis.call('GET', KEYS[1])
if v then
	redis.call('DEL', KEYS[1])
end
return v`

// RedisOtpStore keeps pending codes in redis so multiple server
// instances share OTP state; expiry is enforced by the store itself.
type RedisOtpStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisOtpStore(client *redis.Client, keyPrefix string) *RedisOtpStore {
	return &RedisOtpStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisOtpStore) key(contact string) string {
	return s.keyPrefix + contact
}

func (s *RedisOtpStore) Put(ctx context.Context, contact, code string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(contact), code, ttl).Err()
}

func (s *RedisOtpStore) Consume(ctx context.Context, contact string) (string, error) {
	res, err := s.client.Eval(ctx, consumeScript, []string{s.key(contact)}).Result()
	if err == redis.Nil {
		return "", models.ErrNoPendingOtp
	}
	if err != nil {
		return "", fmt.Errorf("otp store unavailable: %w", err)
	}
	if res == nil {
		return "", models.ErrNoPendingOtp
	}
	code, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("unexpected otp store reply type %T", res)
	}
	return code, nil
}

type memoryOtpEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryOtpStore is the process-local fallback used when redis is not
// configured. Entries are non-durable and lost on restart.
type MemoryOtpStore struct {
	mu      sync.Mutex
	entries map[string]memoryOtpEntry
	now     func() time.Time
}

func NewMemoryOtpStore() *MemoryOtpStore {
	return &MemoryOtpStore{
		entries: make(map[string]memoryOtpEntry),
		now:     time.Now,
	}
}

func (s *MemoryOtpStore) Put(_ context.Context, contact, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[contact] = memoryOtpEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

// Consume deletes the entry under the same lock that reads it, so two
// racing verifications cannot both receive the code. Expired entries
// are treated as absent; expiry is checked here, not left to cleanup.
func (s *MemoryOtpStore) Consume(_ context.Context, contact string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[contact]
	if !ok {
		return "", models.ErrNoPendingOtp
	}
	delete(s.entries, contact)
	if s.now().After(entry.expiresAt) {
		return "", models.ErrNoPendingOtp
	}
	return entry.code, nil
}

// OtpService issues and verifies single-use codes bound to a contact
// number. Codes are consumed on the first verification attempt whether
// or not it matches.
type OtpService struct {
	store  OtpStore
	sender SmsSender
	config *config.OTPConfig
}

func NewOtpService(store OtpStore, sender SmsSender) *OtpService {
	return &OtpService{
		store:  store,
		sender: sender,
		config: config.LoadOTPConfig(),
	}
}

// Issue generates a fresh code for the contact, overwriting any live
// entry, dispatches it over SMS and returns it for internal use only.
func (s *OtpService) Issue(ctx context.Context, contact string) (string, error) {
	code, err := generateOtpCode(s.config.CodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := s.store.Put(ctx, contact, code, s.config.CodeTTL); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	to := contact
	if len(to) > 0 && to[0] != '+' {
		to = s.config.DefaultCountryCode + to
	}

	if err := s.sender.Send(ctx, to, fmt.Sprintf(s.config.MessageTemplate, code)); err != nil {
		return "", fmt.Errorf("otp delivery failed: %w", err)
	}

	log.Printf("[OTP] Code issued for contact %s, expires in %s", contact, s.config.CodeTTL)
	return code, nil
}

// Verify consumes the pending entry for the contact and compares it
// against the candidate. The entry is gone after this call regardless
// of outcome; a second attempt against the same code always fails.
func (s *OtpService) Verify(ctx context.Context, contact, candidate string) error {
	stored, err := s.store.Consume(ctx, contact)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) != 1 {
		return models.ErrInvalidOrExpiredOtp
	}
	return nil
}

func (s *OtpService) CodeTTL() time.Duration {
	return s.config.CodeTTL
}

// generateOtpCode returns a uniformly random code with exactly the
// given number of digits; the default length of 6 yields a code in
// [100000, 999999].
func generateOtpCode(length int) (string, error) {
	if length < 1 {
		length = 6
	}
	floor := int64(1)
	for i := 1; i < length; i++ {
		floor *= 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9*floor))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+floor), nil
}
