package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/store"
)

// emissionColumns is the column list used for SELECT statements on the emissions table.
const emissionColumns = `id, repo, owner, run_id, co2, duration, machine_type, badge, emitted_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryAppendEmission(ctx context.Context, db executor, e *model.Emission) error {
	row := db.QueryRowContext(ctx, `
		INSERT INTO emissions (
			repo, owner, run_id, co2, duration, machine_type, badge, emitted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id`,
		e.Repo,
		e.Owner,
		e.RunID,
		e.CO2,
		e.Duration,
		e.MachineType,
		string(e.Badge),
		e.Timestamp.UTC(),
	)
	var id int64
	if err := row.Scan(&id); err != nil {
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
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emissions WHERE badge = $1`, string(badge)).Scan(&n)
	if err != nil {
		return 0, store.Wrap("count by badge", err)
	}
	return n, nil
}
