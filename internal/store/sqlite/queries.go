package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/store"
)

const emissionColumns = `id, repo, owner, run_id, co2, duration, machine_type, badge, emitted_at`

// timeLayout is fixed-width so that emitted_at sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse emitted_at %q: %w", s, err)
	}
	return t.UTC(), nil
}

func queryAppendEmission(ctx context.Context, db executor, e *model.Emission) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO emissions (
			repo, owner, run_id, co2, duration, machine_type, badge, emitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Repo,
		e.Owner,
		e.RunID,
		e.CO2,
		e.Duration,
		e.MachineType,
		string(e.Badge),
		formatTime(e.Timestamp),
	)
	if err != nil {
		return store.Wrap("append emission", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return store.Wrap("append emission", err)
	}
	e.ID = id
	return nil
}

func queryListEmissions(ctx context.Context, db executor) ([]*model.Emission, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+emissionColumns+` FROM emissions ORDER BY id ASC`)
	if err != nil {
		return nil, store.Wrap("list emissions", err)
	}
	defer rows.Close()

	var emissions []*model.Emission
	for rows.Next() {
		e, err := scanEmission(rows)
		if err != nil {
			return nil, store.Wrap("scan emission", err)
		}
		emissions = append(emissions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("list emissions", err)
	}
	return emissions, nil
}

func queryLatestEmission(ctx context.Context, db executor) (*model.Emission, error) {
	row := db.QueryRowContext(ctx, `SELECT `+emissionColumns+` FROM emissions
		ORDER BY emitted_at DESC, id DESC
		LIMIT 1`)
	e, err := scanEmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, store.Wrap("latest emission", err)
	}
	return e, nil
}

func queryCountByBadge(ctx context.Context, db executor, badge model.Badge) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emissions WHERE badge = ?`, string(badge)).Scan(&n)
	if err != nil {
		return 0, store.Wrap("count by badge", err)
	}
	return n, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEmission(row scannable) (*model.Emission, error) {
	var e model.Emission
	var badge, emittedAt string

	err := row.Scan(
		&e.ID,
		&e.Repo,
		&e.Owner,
		&e.RunID,
		&e.CO2,
		&e.Duration,
		&e.MachineType,
		&badge,
		&emittedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Badge = model.Badge(badge)
	if e.Timestamp, err = parseTime(emittedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
