package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/database"
)

// ErrNotFound is returned when a latest row has never been written
var ErrNotFound = errors.New("not found")

// Repository implements contracts.HistoryStore on PostgreSQL.
// Multi-row writes run in one transaction: all rows land or none do.
// ⭐ SSOT: 유동성 결과 저장소는 여기서만
type Repository struct {
	db *database.DB
}

var _ contracts.HistoryStore = (*Repository)(nil)

// NewRepository creates a new repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// resultRow is the JSON-encoded part of a CompositeResult row
type resultRow struct {
	snapshot   []byte
	components []byte
	derived    []byte
}

func encodeResult(r contracts.CompositeResult) (resultRow, error) {
	snapshot, err := json.Marshal(r.Snapshot)
	if err != nil {
		return resultRow{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	components, err := json.Marshal(r.Components)
	if err != nil {
		return resultRow{}, fmt.Errorf("marshal components: %w", err)
	}
	derived, err := json.Marshal(r.Derived)
	if err != nil {
		return resultRow{}, fmt.Errorf("marshal derived: %w", err)
	}
	return resultRow{snapshot: snapshot, components: components, derived: derived}, nil
}

// execer is satisfied by both the pool and a transaction
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AppendResults appends results to global_history under runID
func (r *Repository) AppendResults(ctx context.Context, runID string, results []contracts.CompositeResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return appendResults(ctx, tx, runID, results)
	})
}

// RecordRun appends results under runID and upserts the last one as the
// latest row, in one transaction.
func (r *Repository) RecordRun(ctx context.Context, runID string, results []contracts.CompositeResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := appendResults(ctx, tx, runID, results); err != nil {
			return err
		}
		return upsertLatest(ctx, tx, results[len(results)-1])
	})
}

func appendResults(ctx context.Context, tx pgx.Tx, runID string, results []contracts.CompositeResult) error {
	query := `
		INSERT INTO liquidity.global_history
			(run_id, ref_date, score, signal, recommendation,
			 us_score, dollar_score, china_score, japan_score, em_score,
			 snapshot, components, derived, config_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	batch := &pgx.Batch{}
	for _, res := range results {
		row, err := encodeResult(res)
		if err != nil {
			return err
		}
		c := res.Components
		batch.Queue(query, runID, contracts.Day(res.Timestamp), res.Score, res.Signal.String(), res.Recommendation,
			c.US, c.Dollar, c.China, c.Japan, c.EM,
			row.snapshot, row.components, row.derived, res.ConfigHash)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert global_history row %d: %w", i, err)
		}
	}
	return br.Close()
}

// UpsertLatest overwrites the single global_latest row
func (r *Repository) UpsertLatest(ctx context.Context, res contracts.CompositeResult) error {
	return upsertLatest(ctx, r.db.Pool, res)
}

func upsertLatest(ctx context.Context, q execer, res contracts.CompositeResult) error {
	row, err := encodeResult(res)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO liquidity.global_latest
			(id, ref_date, score, signal, recommendation, snapshot, components, derived, config_hash, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			ref_date = EXCLUDED.ref_date,
			score = EXCLUDED.score,
			signal = EXCLUDED.signal,
			recommendation = EXCLUDED.recommendation,
			snapshot = EXCLUDED.snapshot,
			components = EXCLUDED.components,
			derived = EXCLUDED.derived,
			config_hash = EXCLUDED.config_hash,
			updated_at = NOW()`

	_, err = q.Exec(ctx, query,
		contracts.Day(res.Timestamp), res.Score, res.Signal.String(), res.Recommendation,
		row.snapshot, row.components, row.derived, res.ConfigHash,
	)
	if err != nil {
		return fmt.Errorf("upsert global_latest: %w", err)
	}
	return nil
}

// Latest returns the current global_latest row
func (r *Repository) Latest(ctx context.Context) (contracts.CompositeResult, error) {
	query := `
		SELECT ref_date, score, signal, recommendation, snapshot, components, derived, config_hash
		FROM liquidity.global_latest
		WHERE id = 1`

	res, err := scanResult(r.db.Pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.CompositeResult{}, ErrNotFound
	}
	return res, err
}

// History returns global_history rows with ref_date in [from, to], oldest first.
// A zero bound is open.
func (r *Repository) History(ctx context.Context, from, to time.Time) ([]contracts.CompositeResult, error) {
	query := `
		SELECT ref_date, score, signal, recommendation, snapshot, components, derived, config_hash
		FROM liquidity.global_history
		WHERE ($1::date IS NULL OR ref_date >= $1)
		  AND ($2::date IS NULL OR ref_date <= $2)
		ORDER BY ref_date ASC, id ASC`

	rows, err := r.db.Pool.Query(ctx, query, nullableDate(from), nullableDate(to))
	if err != nil {
		return nil, fmt.Errorf("query global_history: %w", err)
	}
	defer rows.Close()

	var out []contracts.CompositeResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanResult(row pgx.Row) (contracts.CompositeResult, error) {
	var (
		res                           contracts.CompositeResult
		signal                        string
		snapshot, components, derived []byte
	)
	err := row.Scan(&res.Timestamp, &res.Score, &signal, &res.Recommendation,
		&snapshot, &components, &derived, &res.ConfigHash)
	if err != nil {
		return res, err
	}

	if res.Signal, err = contracts.ParseSignal(signal); err != nil {
		return res, err
	}
	if err := json.Unmarshal(snapshot, &res.Snapshot); err != nil {
		return res, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := json.Unmarshal(components, &res.Components); err != nil {
		return res, fmt.Errorf("unmarshal components: %w", err)
	}
	if err := json.Unmarshal(derived, &res.Derived); err != nil {
		return res, fmt.Errorf("unmarshal derived: %w", err)
	}
	return res, nil
}

// AppendMoneyMarket appends a monitor_history row and overwrites monitor_latest
func (r *Repository) AppendMoneyMarket(ctx context.Context, m contracts.MoneyMarketReading) error {
	errs := m.Errors
	if errs == nil {
		errs = []string{}
	}
	args := []any{
		m.Timestamp, contracts.Day(m.Date), m.SOFR, m.EFFR, m.IORB, m.SpreadBP,
		m.ReverseRepo, m.TGA, m.BalanceSheet, m.BalanceWoW, m.SRFAccepted,
		string(m.Condition), errs,
	}

	history := `
		INSERT INTO liquidity.monitor_history
			(observed_at, ref_date, sofr, effr, iorb, spread_bp, reverse_repo, tga,
			 balance_sheet, balance_wow, srf_accepted, condition, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	latest := `
		INSERT INTO liquidity.monitor_latest
			(id, observed_at, ref_date, sofr, effr, iorb, spread_bp, reverse_repo, tga,
			 balance_sheet, balance_wow, srf_accepted, condition, errors)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			observed_at = EXCLUDED.observed_at,
			ref_date = EXCLUDED.ref_date,
			sofr = EXCLUDED.sofr,
			effr = EXCLUDED.effr,
			iorb = EXCLUDED.iorb,
			spread_bp = EXCLUDED.spread_bp,
			reverse_repo = EXCLUDED.reverse_repo,
			tga = EXCLUDED.tga,
			balance_sheet = EXCLUDED.balance_sheet,
			balance_wow = EXCLUDED.balance_wow,
			srf_accepted = EXCLUDED.srf_accepted,
			condition = EXCLUDED.condition,
			errors = EXCLUDED.errors`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, history, args...); err != nil {
			return fmt.Errorf("insert monitor_history: %w", err)
		}
		if _, err := tx.Exec(ctx, latest, args...); err != nil {
			return fmt.Errorf("upsert monitor_latest: %w", err)
		}
		return nil
	})
}

// LatestMoneyMarket returns the monitor_latest row
func (r *Repository) LatestMoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error) {
	query := `
		SELECT observed_at, ref_date, sofr, effr, iorb, spread_bp, reverse_repo, tga,
		       balance_sheet, balance_wow, srf_accepted, condition, errors
		FROM liquidity.monitor_latest
		WHERE id = 1`

	var (
		m         contracts.MoneyMarketReading
		condition string
	)
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&m.Timestamp, &m.Date, &m.SOFR, &m.EFFR, &m.IORB, &m.SpreadBP, &m.ReverseRepo, &m.TGA,
		&m.BalanceSheet, &m.BalanceWoW, &m.SRFAccepted, &condition, &m.Errors,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return m, ErrNotFound
	}
	if err != nil {
		return m, fmt.Errorf("query monitor_latest: %w", err)
	}
	m.Condition = contracts.MarketCondition(condition)
	return m, nil
}

// AppendAlerts appends one alert_history row per record
func (r *Repository) AppendAlerts(ctx context.Context, records []contracts.AlertRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO liquidity.alert_history
			(batch_id, triggered_at, score, signal, alert_type, severity, level, message, action)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	batch := &pgx.Batch{}
	for _, rec := range records {
		a := rec.Alert
		batch.Queue(query, rec.BatchID, rec.Timestamp, rec.Score, rec.Signal.String(),
			string(a.Type), string(a.Severity), a.Level, a.Message, a.Action)
	}

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range records {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("insert alert_history row %d: %w", i, err)
			}
		}
		return br.Close()
	})
}

// Alerts returns the most recent alert_history rows, newest first
func (r *Repository) Alerts(ctx context.Context, limit int) ([]contracts.AlertRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT batch_id, triggered_at, score, signal, alert_type, severity, level, message, action
		FROM liquidity.alert_history
		ORDER BY triggered_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query alert_history: %w", err)
	}
	defer rows.Close()

	var out []contracts.AlertRecord
	for rows.Next() {
		var (
			rec                    contracts.AlertRecord
			signal, kind, severity string
		)
		if err := rows.Scan(&rec.BatchID, &rec.Timestamp, &rec.Score, &signal,
			&kind, &severity, &rec.Alert.Level, &rec.Alert.Message, &rec.Alert.Action); err != nil {
			return nil, err
		}
		if rec.Signal, err = contracts.ParseSignal(signal); err != nil {
			return nil, err
		}
		rec.Alert.Type = contracts.AlertType(kind)
		rec.Alert.Severity = contracts.Severity(severity)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := contracts.Day(t)
	return &d
}
