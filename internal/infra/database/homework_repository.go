package database

import (
	"context"
	"fmt"
	"time"

	"homework_bot/internal/domain/homework"

	"github.com/jmoiron/sqlx"
)

type HomeworkRepository struct {
	db *sqlx.DB
}

func NewHomeworkRepository(db *sqlx.DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

type homeworkRow struct {
	ID          int64  `db:"id"`
	Subject     string `db:"subject"`
	Description string `db:"description"`
}

type attachmentRow struct {
	HomeworkID int64 `db:"homework_id"`
	homework.Attachment
}

func (r *HomeworkRepository) Insert(ctx context.Context, e *homework.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting homework transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	query := tx.Rebind(`INSERT INTO homework (subject, hw_date, description)
               VALUES (?, ?, ?)
               RETURNING id`)
	if err := tx.QueryRowxContext(ctx, query, e.Subject, homework.DateKey(e.Date), e.Description).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating homework: %w", err)
	}

	attachQuery := tx.Rebind(`INSERT INTO homework_attachments (homework_id, file_id, file_type) VALUES (?, ?, ?)`)
	for _, a := range e.Attachments {
		if _, err := tx.ExecContext(ctx, attachQuery, id, a.FileID, a.Kind); err != nil {
			return 0, fmt.Errorf("error creating homework attachment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing homework: %w", err)
	}
	e.ID = id
	return id, nil
}

func (r *HomeworkRepository) ListSubjectsForDate(ctx context.Context, date time.Time) ([]string, error) {
	query := r.db.Rebind(`SELECT subject FROM homework
               WHERE hw_date = ?
               GROUP BY subject
               ORDER BY MIN(id)`)
	subjects := make([]string, 0)
	if err := r.db.SelectContext(ctx, &subjects, query, homework.DateKey(date)); err != nil {
		return nil, fmt.Errorf("error listing homework subjects: %w", err)
	}
	return subjects, nil
}

func (r *HomeworkRepository) ListBySubject(ctx context.Context, date time.Time, subject string) ([]*homework.Entry, error) {
	query := r.db.Rebind(`SELECT id, subject, description FROM homework
               WHERE hw_date = ? AND subject = ?
               ORDER BY id`)
	var rows []homeworkRow
	if err := r.db.SelectContext(ctx, &rows, query, homework.DateKey(date), subject); err != nil {
		return nil, fmt.Errorf("error listing homework by subject: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	entries := make([]*homework.Entry, 0, len(rows))
	byID := make(map[int64]*homework.Entry, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		e := &homework.Entry{ID: row.ID, Subject: row.Subject, Date: date, Description: row.Description}
		entries = append(entries, e)
		byID[row.ID] = e
		ids = append(ids, row.ID)
	}

	query, args, err := sqlx.In(`SELECT homework_id, file_id, file_type FROM homework_attachments
               WHERE homework_id IN (?)
               ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("error building attachment query: %w", err)
	}
	var attachments []attachmentRow
	if err := r.db.SelectContext(ctx, &attachments, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("error listing homework attachments: %w", err)
	}
	for _, a := range attachments {
		if e, ok := byID[a.HomeworkID]; ok {
			e.Attachments = append(e.Attachments, a.Attachment)
		}
	}
	return entries, nil
}

func (r *HomeworkRepository) DeleteBySubject(ctx context.Context, date time.Time, subject string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting homework transaction: %w", err)
	}
	defer tx.Rollback()

	key := homework.DateKey(date)
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM homework_attachments
               WHERE homework_id IN (SELECT id FROM homework WHERE hw_date = ? AND subject = ?)`), key, subject); err != nil {
		return 0, fmt.Errorf("error deleting homework attachments: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM homework WHERE hw_date = ? AND subject = ?`), key, subject)
	if err != nil {
		return 0, fmt.Errorf("error deleting homework: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting deleted homework: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing homework deletion: %w", err)
	}
	return removed, nil
}
