package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func createVerificationServiceForTest(t *testing.T) (domain.VerificationService, *redis.Client) {
	t.Helper()

	client := setupTestRedis(t)
	svc := NewVerificationService(NewCodeGenerator(6), client, VerificationConfig{
		TTL:         5 * time.Minute,
		MaxAttempts: 5,
	})
	return svc, client
}

func TestVerificationServiceImpl_Issue(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		recipient     string
		purpose       domain.Purpose
		channel       domain.Channel
		expectedError error
	}{
		{
			name:      "successful SMS issue",
			recipient: "+254712345678",
			purpose:   domain.PurposeRegistration,
			channel:   domain.ChannelSMS,
		},
		{
			name:      "successful email issue",
			recipient: "vendor@example.co.ke",
			purpose:   domain.PurposeRFQUnlock,
			channel:   domain.ChannelEmail,
		},
		{
			name:          "unknown purpose",
			recipient:     "+254712345678",
			purpose:       domain.Purpose("newsletter"),
			channel:       domain.ChannelSMS,
			expectedError: domain.ErrUnknownPurpose,
		},
		{
			name:          "unknown channel",
			recipient:     "+254712345678",
			purpose:       domain.PurposeRegistration,
			channel:       domain.Channel("fax"),
			expectedError: domain.ErrUnknownChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client := createVerificationServiceForTest(t)

			issued, err := svc.Issue(ctx, tt.recipient, tt.purpose, tt.channel)
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Issue() error: %v", err)
			}

			if len(issued.Code) != 6 {
				t.Errorf("expected 6-digit code, got %q", issued.Code)
			}
			if issued.Request.AttemptsRemaining != 5 {
				t.Errorf("expected 5 attempts, got %d", issued.Request.AttemptsRemaining)
			}
			if issued.Request.Consumed {
				t.Error("fresh request must not be consumed")
			}
			if issued.Request.CodeHash == issued.Code {
				t.Error("plaintext code must not be stored")
			}
			if bcrypt.CompareHashAndPassword([]byte(issued.Request.CodeHash), []byte(issued.Code)) != nil {
				t.Error("stored hash does not match issued code")
			}

			exists, err := client.Exists(ctx, requestKey(tt.purpose, tt.recipient)).Result()
			if err != nil {
				t.Fatalf("failed to check request key: %v", err)
			}
			if exists != 1 {
				t.Error("request key should exist in Redis")
			}
		})
	}
}

func TestVerificationServiceImpl_Issue_Supersedes(t *testing.T) {
	ctx := context.Background()
	svc, _ := createVerificationServiceForTest(t)

	first, err := svc.Issue(ctx, "+254712345678", domain.PurposeRegistration, domain.ChannelSMS)
	if err != nil {
		t.Fatalf("first Issue() error: %v", err)
	}
	second, err := svc.Issue(ctx, "+254712345678", domain.PurposeRegistration, domain.ChannelSMS)
	if err != nil {
		t.Fatalf("second Issue() error: %v", err)
	}

	// The superseded code must not validate, even though it was correct for
	// the first request.
	if first.Code != second.Code {
		if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, first.Code); !errors.Is(err, domain.ErrCodeMismatch) {
			t.Errorf("expected ErrCodeMismatch for superseded code, got %v", err)
		}
	}

	key, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, second.Code)
	if err != nil {
		t.Fatalf("Validate() with current code failed: %v", err)
	}
	if key != second.Request.ID {
		t.Errorf("expected idempotency key %s, got %s", second.Request.ID, key)
	}
}

func TestVerificationServiceImpl_Validate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		run           func(t *testing.T, svc domain.VerificationService, client *redis.Client)
	}{
		{
			name: "success exactly once then already consumed",
			run: func(t *testing.T, svc domain.VerificationService, client *redis.Client) {
				issued, err := svc.Issue(ctx, "+254712345678", domain.PurposeRegistration, domain.ChannelSMS)
				if err != nil {
					t.Fatalf("Issue() error: %v", err)
				}

				key, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, issued.Code)
				if err != nil {
					t.Fatalf("first Validate() error: %v", err)
				}
				if key == "" {
					t.Fatal("expected non-empty idempotency key")
				}

				_, err = svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, issued.Code)
				if !errors.Is(err, domain.ErrAlreadyConsumed) {
					t.Errorf("expected ErrAlreadyConsumed on replay, got %v", err)
				}
			},
		},
		{
			name: "not found",
			run: func(t *testing.T, svc domain.VerificationService, client *redis.Client) {
				_, err := svc.Validate(ctx, "+254700000000", domain.PurposeRegistration, "123456")
				if !errors.Is(err, domain.ErrCodeNotFound) {
					t.Errorf("expected ErrCodeNotFound, got %v", err)
				}
			},
		},
		{
			name: "wrong code decrements attempts and reports mismatch",
			run: func(t *testing.T, svc domain.VerificationService, client *redis.Client) {
				issued, err := svc.Issue(ctx, "+254712345678", domain.PurposeRegistration, domain.ChannelSMS)
				if err != nil {
					t.Fatalf("Issue() error: %v", err)
				}

				wrong := "000000"
				if wrong == issued.Code {
					wrong = "000001"
				}
				for i := 0; i < 3; i++ {
					if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, wrong); !errors.Is(err, domain.ErrCodeMismatch) {
						t.Fatalf("attempt %d: expected ErrCodeMismatch, got %v", i+1, err)
					}
				}

				pending, err := svc.Peek(ctx, "+254712345678", domain.PurposeRegistration)
				if err != nil {
					t.Fatalf("Peek() error: %v", err)
				}
				if pending.AttemptsRemaining != 2 {
					t.Errorf("expected 2 attempts remaining, got %d", pending.AttemptsRemaining)
				}

				// Correct code still works after failed tries.
				if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, issued.Code); err != nil {
					t.Errorf("Validate() with correct code failed: %v", err)
				}
			},
		},
		{
			name: "exhausted attempts are terminal even for the correct code",
			run: func(t *testing.T, svc domain.VerificationService, client *redis.Client) {
				issued, err := svc.Issue(ctx, "+254712345678", domain.PurposeRegistration, domain.ChannelSMS)
				if err != nil {
					t.Fatalf("Issue() error: %v", err)
				}

				wrong := "000000"
				if wrong == issued.Code {
					wrong = "000001"
				}
				for i := 0; i < 4; i++ {
					if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, wrong); !errors.Is(err, domain.ErrCodeMismatch) {
						t.Fatalf("attempt %d: expected ErrCodeMismatch, got %v", i+1, err)
					}
				}
				// Fifth wrong attempt drains the counter.
				if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, wrong); !errors.Is(err, domain.ErrAttemptsExhausted) {
					t.Fatalf("expected ErrAttemptsExhausted on final attempt, got %v", err)
				}
				// Correct code can never succeed afterwards.
				if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, issued.Code); !errors.Is(err, domain.ErrAttemptsExhausted) {
					t.Errorf("expected ErrAttemptsExhausted after exhaustion, got %v", err)
				}
			},
		},
		{
			name: "expired request rejects the correct code",
			run: func(t *testing.T, svc domain.VerificationService, client *redis.Client) {
				issued, err := svc.Issue(ctx, "+254712345678", domain.PurposeRegistration, domain.ChannelSMS)
				if err != nil {
					t.Fatalf("Issue() error: %v", err)
				}

				// Rewind the stored expiry instead of sleeping out the TTL.
				expired := *issued.Request
				expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
				data, _ := json.Marshal(&expired)
				if err := client.Set(ctx, requestKey(domain.PurposeRegistration, "+254712345678"), data, 10*time.Minute).Err(); err != nil {
					t.Fatalf("failed to rewrite request: %v", err)
				}

				if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, issued.Code); !errors.Is(err, domain.ErrCodeExpired) {
					t.Fatalf("expected ErrCodeExpired, got %v", err)
				}
				// The dead record is dropped; the next submit sees nothing.
				if _, err := svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, issued.Code); !errors.Is(err, domain.ErrCodeNotFound) {
					t.Errorf("expected ErrCodeNotFound after expiry cleanup, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client := createVerificationServiceForTest(t)
			tt.run(t, svc, client)
		})
	}
}

func TestVerificationServiceImpl_Validate_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	svc, _ := createVerificationServiceForTest(t)

	issued, err := svc.Issue(ctx, "+254712345678", domain.PurposeRegistration, domain.ChannelSMS)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	const racers = 8
	var wg sync.WaitGroup
	results := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Validate(ctx, "+254712345678", domain.PurposeRegistration, issued.Code)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrAlreadyConsumed):
		default:
			t.Errorf("unexpected racer error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly one successful validation, got %d", successes)
	}
}
