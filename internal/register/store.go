package register

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore persists drafts in Redis for the lifetime of a register session.
type DraftStore struct {
	client   *redis.Client
	draftTTL time.Duration
	lockTTL  time.Duration
}

// NewDraftStore constructs the store.
func NewDraftStore(client *redis.Client, draftTTL, lockTTL time.Duration) *DraftStore {
	if draftTTL <= 0 {
		draftTTL = 12 * time.Hour
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &DraftStore{client: client, draftTTL: draftTTL, lockTTL: lockTTL}
}

func draftKey(id string) string {
	return fmt.Sprintf("register:draft:%s", id)
}

func submitLockKey(id string) string {
	return fmt.Sprintf("register:draft:%s:submit", id)
}

// Save writes the draft, refreshing its TTL.
func (s *DraftStore) Save(ctx context.Context, draft *Draft) error {
	if draft == nil || draft.ID == "" {
		return errors.New("register: draft id required")
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("register: marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.ID), payload, s.draftTTL).Err(); err != nil {
		return fmt.Errorf("register: save draft: %w", err)
	}
	return nil
}

// Get loads the draft by id.
func (s *DraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	payload, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("register: load draft: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("register: unmarshal draft: %w", err)
	}
	return &draft, nil
}

// Delete discards the draft.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKey(id)).Err()
}

// AcquireSubmitLock reserves the draft for one in-flight submission. It
// replaces the disabled submit control of a register UI.
func (s *DraftStore) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, submitLockKey(id), time.Now().UnixNano(), s.lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("register: acquire submit lock: %w", err)
	}
	return ok, nil
}

// ReleaseSubmitLock frees the submission lock.
func (s *DraftStore) ReleaseSubmitLock(ctx context.Context, id string) error {
	return s.client.Del(ctx, submitLockKey(id)).Err()
}
