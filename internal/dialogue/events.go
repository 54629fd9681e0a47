package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// eventTimeout bounds a single event insert.
const eventTimeout = 3 * time.Second

// Event records how one turn was routed.
type Event struct {
	SessionID string
	Intent    string
	Topic     string
	Route     Route
	Data      map[string]any
	CreatedAt time.Time
}

// EventLogger persists turn events.
type EventLogger interface {
	LogEvent(ctx context.Context, event Event) error
}

// NopEventLogger ignores all events.
type NopEventLogger struct{}

func (NopEventLogger) LogEvent(context.Context, Event) error {
	return nil
}

// MemoryEventLogger stores events in memory.
type MemoryEventLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{}
}

func (l *MemoryEventLogger) LogEvent(_ context.Context, event Event) error {
	if err := event.validate(); err != nil {
		return err
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
	return nil
}

func (l *MemoryEventLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// PostgresEventLogger inserts events into the turn_events table.
type PostgresEventLogger struct {
	pool *pgxpool.Pool
}

func NewPostgresEventLogger(pool *pgxpool.Pool) *PostgresEventLogger {
	return &PostgresEventLogger{pool: pool}
}

func (l *PostgresEventLogger) LogEvent(ctx context.Context, event Event) error {
	if l == nil || l.pool == nil {
		return fmt.Errorf("event logger pool is nil")
	}
	if err := event.validate(); err != nil {
		return err
	}

	payload := event.Data
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	_, err = l.pool.Exec(ctx,
		`INSERT INTO turn_events (session_id, intent, topic, route, data, created_at)
		 VALUES ($1::uuid, $2, $3, $4, $5::jsonb, $6)`,
		event.SessionID,
		event.Intent,
		event.Topic,
		string(event.Route),
		string(data),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RouteCounts returns how many turns took each route.
func (l *PostgresEventLogger) RouteCounts(ctx context.Context) (map[Route]int, error) {
	rows, err := l.pool.Query(ctx, `SELECT route, count(*) FROM turn_events GROUP BY route`)
	if err != nil {
		return nil, fmt.Errorf("query route counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[Route]int)
	for rows.Next() {
		var (
			route string
			n     int
		)
		if err := rows.Scan(&route, &n); err != nil {
			return nil, fmt.Errorf("scan route count: %w", err)
		}
		counts[Route(route)] = n
	}
	return counts, rows.Err()
}

func (e Event) validate() error {
	if e.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if e.Route == "" {
		return fmt.Errorf("route is required")
	}
	return nil
}
