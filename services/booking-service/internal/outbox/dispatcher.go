package outbox

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Publisher is the slice of the bus the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Dispatcher polls the outbox and publishes staged events in commit order.
// Rows are locked with SKIP LOCKED so multiple dispatcher replicas can drain
// concurrently, and a row is only deleted once its publish succeeded
// (at-least-once delivery).
type Dispatcher struct {
	pool     *pgxpool.Pool
	pub      Publisher
	interval time.Duration
	batch    int
}

func NewDispatcher(pool *pgxpool.Pool, pub Publisher) *Dispatcher {
	return &Dispatcher{pool: pool, pub: pub, interval: time.Second, batch: 50}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.processBatch(ctx); err != nil {
				log.Printf("[outbox] batch failed: %v", err)
			}
		}
	}
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, topic, payload
		FROM outbox
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, d.batch)
	if err != nil {
		return err
	}

	type staged struct {
		id      string
		topic   string
		payload []byte
	}
	var batch []staged
	for rows.Next() {
		var s staged
		if err := rows.Scan(&s.id, &s.topic, &s.payload); err != nil {
			rows.Close()
			return err
		}
		batch = append(batch, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}

	var done []string
	for _, s := range batch {
		if err := d.pub.Publish(ctx, s.topic, json.RawMessage(s.payload)); err != nil {
			// Retained; retried next tick.
			log.Printf("[outbox] publish %s failed: %v", s.topic, err)
			continue
		}
		done = append(done, s.id)
	}
	if len(done) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM outbox WHERE id = ANY($1)`, done); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
