package service

import (
	"context"
	"sync"

	"signal_bot/internal/models"
)

// Memory — процессная история без персистентности (дефолт).
type Memory struct {
	mu   sync.Mutex
	data map[string]int64
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]int64)}
}

func (m *Memory) MarkIfNew(_ context.Context, plan models.PlanType, key string, ts int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := string(plan) + "|" + key
	if prev, ok := m.data[k]; ok && prev == ts {
		return false, nil
	}
	m.data[k] = ts
	return true, nil
}
