package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

// History — персистентная история срабатываний: дедуп переживает рестарт
// процесса. Проверка-и-запись выполняется одним upsert'ом; строка меняется
// только если таймштамп отличается от сохранённого.
type History struct {
	tm db.TxManager
}

func New(tm db.TxManager) *History {
	return &History{tm: tm}
}

const markQuery = `
INSERT INTO signal_history (plan, key, base_ts)
VALUES ($1, $2, $3)
ON CONFLICT (plan, key) DO UPDATE
SET base_ts = EXCLUDED.base_ts
WHERE signal_history.base_ts <> EXCLUDED.base_ts`

func (h *History) MarkIfNew(ctx context.Context, plan models.PlanType, key string, ts int64) (fresh bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("History.MarkIfNew: %w", err)
		}
	}()

	err = h.tm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		tag, execErr := tx.Exec(ctxTx, markQuery, string(plan), key, ts)
		if execErr != nil {
			return execErr
		}
		fresh = tag.RowsAffected() > 0
		return nil
	})
	return fresh, err
}
