package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// VerificationServiceImpl implements domain.VerificationService using Redis
// persistence. One JSON record per (recipient, purpose) key carries the
// request; a separate integer key carries the attempt budget so decrements
// are atomic; a SETNX marker key serializes consumption.
type VerificationServiceImpl struct {
	codeGen     domain.CodeGenerator
	redisClient *redis.Client
	config      VerificationConfig
}

type VerificationConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

// retentionFactor stretches the Redis key TTL past the logical expiry so a
// late submit can be answered with Expired instead of NotFound.
const retentionFactor = 2

// NewVerificationService creates a new Redis-based verification service
func NewVerificationService(codeGen domain.CodeGenerator, redisClient *redis.Client, config VerificationConfig) domain.VerificationService {
	return &VerificationServiceImpl{
		codeGen:     codeGen,
		redisClient: redisClient,
		config:      config,
	}
}

func requestKey(purpose domain.Purpose, recipient string) string {
	return fmt.Sprintf("verify:req:%s:%s", purpose, recipient)
}

func attemptsKey(purpose domain.Purpose, recipient, id string) string {
	return fmt.Sprintf("verify:att:%s:%s:%s", purpose, recipient, id)
}

func consumedKey(purpose domain.Purpose, recipient, id string) string {
	return fmt.Sprintf("verify:used:%s:%s:%s", purpose, recipient, id)
}

// Issue implements domain.VerificationService. Writing the record at a fixed
// key makes supersession last-write-wins: the prior pending code for the
// same (recipient, purpose) can never validate again.
func (s *VerificationServiceImpl) Issue(ctx context.Context, recipient string, purpose domain.Purpose, channel domain.Channel) (*domain.IssueResult, error) {
	if !domain.ValidPurpose(purpose) {
		return nil, domain.ErrUnknownPurpose
	}
	if !domain.ValidChannel(channel) {
		return nil, domain.ErrUnknownChannel
	}

	code, err := s.codeGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash verification code: %w", err)
	}

	now := time.Now().UTC()
	req := &domain.VerificationRequest{
		ID:                uuid.NewString(),
		Recipient:         recipient,
		Purpose:           purpose,
		Channel:           channel,
		CodeHash:          string(hash),
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.config.TTL),
		AttemptsRemaining: s.config.MaxAttempts,
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verification request: %w", err)
	}

	retention := s.config.TTL * retentionFactor
	if err := s.redisClient.Set(ctx, requestKey(purpose, recipient), data, retention).Err(); err != nil {
		return nil, fmt.Errorf("failed to store verification request: %w", err)
	}

	if err := s.redisClient.Set(ctx, attemptsKey(purpose, recipient, req.ID), s.config.MaxAttempts, retention).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	return &domain.IssueResult{Request: req, Code: code}, nil
}

// Validate implements domain.VerificationService. Exactly one caller may
// observe success for a given request: the SETNX on the consumed marker is
// the serialization point for concurrent submits.
func (s *VerificationServiceImpl) Validate(ctx context.Context, recipient string, purpose domain.Purpose, code string) (string, error) {
	if !domain.ValidPurpose(purpose) {
		return "", domain.ErrUnknownPurpose
	}

	reqKey := requestKey(purpose, recipient)
	data, err := s.redisClient.Get(ctx, reqKey).Result()
	if err == redis.Nil {
		return "", domain.ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load verification request: %w", err)
	}

	var req domain.VerificationRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return "", fmt.Errorf("failed to unmarshal verification request: %w", err)
	}

	if req.Consumed {
		return "", domain.ErrAlreadyConsumed
	}
	if used, err := s.redisClient.Exists(ctx, consumedKey(purpose, recipient, req.ID)).Result(); err == nil && used == 1 {
		return "", domain.ErrAlreadyConsumed
	}

	if req.Expired(time.Now().UTC()) {
		// Expiry is terminal but not consumption; drop the dead record.
		s.redisClient.Del(ctx, reqKey, attemptsKey(purpose, recipient, req.ID))
		return "", domain.ErrCodeExpired
	}

	attKey := attemptsKey(purpose, recipient, req.ID)
	remaining, err := s.redisClient.Get(ctx, attKey).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("failed to load attempts counter: %w", err)
	}
	if err == redis.Nil || remaining <= 0 {
		return "", domain.ErrAttemptsExhausted
	}

	if bcrypt.CompareHashAndPassword([]byte(req.CodeHash), []byte(code)) != nil {
		left, err := s.redisClient.Decr(ctx, attKey).Result()
		if err != nil {
			return "", fmt.Errorf("failed to decrement attempts: %w", err)
		}
		if left <= 0 {
			return "", domain.ErrAttemptsExhausted
		}
		return "", domain.ErrCodeMismatch
	}

	// Correct code. Only the first caller to plant the marker wins.
	won, err := s.redisClient.SetNX(ctx, consumedKey(purpose, recipient, req.ID), 1, s.config.TTL*retentionFactor).Result()
	if err != nil {
		return "", fmt.Errorf("failed to mark verification consumed: %w", err)
	}
	if !won {
		return "", domain.ErrAlreadyConsumed
	}

	// The attempts key is left to expire on its own: concurrent losers must
	// land on AlreadyConsumed, not AttemptsExhausted.
	req.Consumed = true
	if updated, err := json.Marshal(&req); err == nil {
		// Best effort; the marker above is authoritative.
		s.redisClient.Set(ctx, reqKey, updated, s.config.TTL*retentionFactor)
	}

	return req.ID, nil
}

// Peek implements domain.VerificationService.
func (s *VerificationServiceImpl) Peek(ctx context.Context, recipient string, purpose domain.Purpose) (*domain.VerificationRequest, error) {
	data, err := s.redisClient.Get(ctx, requestKey(purpose, recipient)).Result()
	if err == redis.Nil {
		return nil, domain.ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verification request: %w", err)
	}

	var req domain.VerificationRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification request: %w", err)
	}

	if remaining, err := s.redisClient.Get(ctx, attemptsKey(purpose, recipient, req.ID)).Int(); err == nil {
		req.AttemptsRemaining = remaining
	}

	return &req, nil
}
