package service

import (
	"context"

	"signal_bot/internal/models"
)

// Store — история срабатываний, общая на процесс и явно внедряемая.
// MarkIfNew атомарно проверяет и фиксирует таймштамп базовой свечи:
// true — сигнал новый, его можно рассылать; false — по этому ключу уже
// отправляли алерт ровно с этим таймштампом. Проверка и запись — одна
// критическая секция, иначе два воркера разошлют один и тот же сигнал.
type Store interface {
	MarkIfNew(ctx context.Context, plan models.PlanType, key string, ts int64) (bool, error)
}
