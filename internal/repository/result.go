package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	FindByRun(ctx context.Context, run string) ([]*entity.GameResult, error)
	FindAll(ctx context.Context) ([]*entity.GameResult, error)
}

type dbResult struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &dbResult{
		conn: conn,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	query := `INSERT INTO game_results (id, run, name, matched_pairs, total_moves, completed, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.ID,
		result.Run,
		result.Name,
		result.MatchedPairs,
		result.TotalMoves,
		result.Completed,
		result.PlayedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("can't save game result: %w", err)
	}

	return nil
}

func (that *dbResult) FindByRun(ctx context.Context, run string) ([]*entity.GameResult, error) {
	query := `SELECT id, run, name, matched_pairs, total_moves, completed, played_at
		FROM game_results WHERE run = ? ORDER BY played_at DESC, rowid DESC`

	return that.query(ctx, query, run)
}

func (that *dbResult) FindAll(ctx context.Context) ([]*entity.GameResult, error) {
	query := `SELECT id, run, name, matched_pairs, total_moves, completed, played_at
		FROM game_results ORDER BY played_at DESC, rowid DESC`

	return that.query(ctx, query)
}

func (that *dbResult) query(ctx context.Context, query string, args ...any) ([]*entity.GameResult, error) {
	rows, err := that.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("can't find game results: %w", err)
	}
	defer rows.Close()

	results := make([]*entity.GameResult, 0)
	for rows.Next() {
		var result entity.GameResult
		var playedAt int64

		if err = rows.Scan(
			&result.ID,
			&result.Run,
			&result.Name,
			&result.MatchedPairs,
			&result.TotalMoves,
			&result.Completed,
			&playedAt,
		); err != nil {
			return nil, fmt.Errorf("can't scan game result: %w", err)
		}

		result.PlayedAt = time.UnixMilli(playedAt).UTC()
		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read game results: %w", err)
	}

	return results, nil
}
