package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/textcmp"
)

// InsertAttempt stores a finished attempt and its per-character stats.
func (s *Store) InsertAttempt(ctx context.Context, attempt model.Attempt, chars []model.CharStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	sum := attempt.Summary
	res, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (text_id, mode, ignore_punct, started_at, ended_at, total, matches, mismatches, missing, extra, perfect)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.TextID,
		attempt.Mode.String(),
		boolInt(attempt.IgnorePunctuation),
		formatTime(attempt.StartedAt),
		formatTime(attempt.EndedAt),
		sum.Total,
		sum.Matches,
		sum.Mismatches,
		sum.Missing,
		sum.Extra,
		boolInt(attempt.Perfect),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO attempt_char_stats (attempt_id, char, matches, mismatches, missing)
			 VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, id, cs.Char, cs.Matches, cs.Mismatches, cs.Missing); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListAttempts returns attempt aggregates filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.TextID != "" {
		clauses = append(clauses, "text_id = ?")
		args = append(args, cfg.TextID)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, text_id, mode, started_at, ended_at, total, matches, mismatches, missing, extra, perfect
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var mode, startedAt, endedAt string
		var perfect int
		if err := rows.Scan(&agg.AttemptID, &agg.TextID, &mode, &startedAt, &endedAt,
			&agg.Summary.Total, &agg.Summary.Matches, &agg.Summary.Mismatches,
			&agg.Summary.Missing, &agg.Summary.Extra, &perfect); err != nil {
			return nil, err
		}
		if agg.Mode, err = textcmp.ParseMode(mode); err != nil {
			return nil, err
		}
		started, err := parseTime(startedAt)
		if err != nil {
			return nil, err
		}
		if agg.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		agg.DurationMs = agg.EndedAt.Sub(started).Milliseconds()
		agg.Perfect = perfect != 0
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ListCharAggregates aggregates per-character stats across attempts.
func (s *Store) ListCharAggregates(ctx context.Context, attemptIDs []int64) ([]model.CharAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, len(attemptIDs))
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(matches), SUM(mismatches), SUM(missing)
		FROM attempt_char_stats
		WHERE attempt_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Matches, &agg.Mismatches, &agg.Missing); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
