package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/classhub/examly-backend/internal/config"
	"github.com/classhub/examly-backend/internal/model"
)

// AnswerBuffer is the Redis-backed hot store for in-progress answers. Writes
// land in a per-attempt hash for fast reads and are queued for asynchronous
// persistence to PostgreSQL by the autosave worker.
type AnswerBuffer struct {
	rdb *redis.Client
}

// NewAnswerBuffer creates a new AnswerBuffer.
func NewAnswerBuffer(rdb *redis.Client) *AnswerBuffer {
	return &AnswerBuffer{rdb: rdb}
}

// PersistPayload is the persist-queue message consumed by the autosave worker.
type PersistPayload struct {
	AttemptID     string          `json:"attempt_id"`
	QuestionIndex int             `json:"question_index"`
	Answer        json.RawMessage `json:"answer"`
}

// Save buffers an answer for a question and enqueues it for durable
// persistence.
func (b *AnswerBuffer) Save(ctx context.Context, attemptID uuid.UUID, questionIndex int, answer model.Answer) error {
	raw, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}

	key := config.CacheKey.AttemptAnswersKey(attemptID.String())
	if err := b.rdb.HSet(ctx, key, strconv.Itoa(questionIndex), raw).Err(); err != nil {
		return fmt.Errorf("buffer answer: %w", err)
	}

	payload, err := json.Marshal(PersistPayload{
		AttemptID:     attemptID.String(),
		QuestionIndex: questionIndex,
		Answer:        raw,
	})
	if err != nil {
		return fmt.Errorf("marshal persist payload: %w", err)
	}
	if err := b.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue persist: %w", err)
	}
	return nil
}

// Snapshot reads all buffered answers for an attempt. Returns an empty map
// when the buffer is cold (evicted or never written).
func (b *AnswerBuffer) Snapshot(ctx context.Context, attemptID uuid.UUID) (map[int]model.Answer, error) {
	key := config.CacheKey.AttemptAnswersKey(attemptID.String())
	fields, err := b.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read answer buffer: %w", err)
	}

	answers := make(map[int]model.Answer, len(fields))
	for field, raw := range fields {
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid question index %q in buffer: %w", field, err)
		}
		var ans model.Answer
		if err := json.Unmarshal([]byte(raw), &ans); err != nil {
			return nil, fmt.Errorf("unmarshal buffered answer: %w", err)
		}
		answers[idx] = ans
	}
	return answers, nil
}

// Clear drops an attempt's buffer after the session reaches a terminal state.
func (b *AnswerBuffer) Clear(ctx context.Context, attemptID uuid.UUID) error {
	return b.rdb.Del(ctx, config.CacheKey.AttemptAnswersKey(attemptID.String())).Err()
}
