package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *resultRepo) Append(ctx context.Context, res Result) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	submitted := res.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO results
			(sequence, session_id, code, user_id, total_score, answered, question_count, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, res.SessionID, res.Code, res.UserID, res.TotalScore,
		res.Answered, res.QuestionCount, submitted.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (r *resultRepo) Recent(ctx context.Context, limit int) ([]Result, error) {
	query := `SELECT id, session_id, code, user_id, total_score, answered, question_count, submitted_at
		FROM results ORDER BY sequence DESC` + QueryOpts{Limit: limit}.limit()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			res Result
			ts  int64
		)
		if err := rows.Scan(&res.ID, &res.SessionID, &res.Code, &res.UserID, &res.TotalScore,
			&res.Answered, &res.QuestionCount, &ts); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.SubmittedAt = time.UnixMilli(ts)
		out = append(out, res)
	}
	return out, rows.Err()
}
