// Package notes persists user-facing metadata (labels, messages) of a
// confirmed transaction, keyed by transaction id.
package notes

import (
	"context"
	"sync"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/errno"
)

// Store 备注持久化协作方
type Store interface {
	// SaveNotes 保存确认交易的原始支付批次元数据
	SaveNotes(ctx context.Context, txID string, payments []model.PaymentItem) error
	// Notes 读取指定交易的备注
	Notes(ctx context.Context, txID string) ([]model.PaymentItem, error)
}

// MemoryStore 进程内实现, 用于测试和无 Redis 的场景
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string][]model.PaymentItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string][]model.PaymentItem)}
}

func (s *MemoryStore) SaveNotes(ctx context.Context, txID string, payments []model.PaymentItem) error {
	cp := make([]model.PaymentItem, len(payments))
	copy(cp, payments)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[txID] = cp
	return nil
}

func (s *MemoryStore) Notes(ctx context.Context, txID string) ([]model.PaymentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.m[txID]
	if !ok {
		return nil, errno.ErrNotesNotFound
	}
	cp := make([]model.PaymentItem, len(stored))
	copy(cp, stored)
	return cp, nil
}
