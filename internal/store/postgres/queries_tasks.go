package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// taskColumns is the column list used for SELECT statements on the tasks table.
const taskColumns = `id, owner_id, title, description, visibility, skills,
	fee, apply, closed, created_at, closed_at`

func queryCreateTask(ctx context.Context, db executor, t *model.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, owner_id, title, description, visibility, skills,
			fee, apply, closed, created_at, closed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Description,
		string(t.Visibility),
		textArray(t.Skills),
		t.Fee,
		t.Apply,
		t.Closed,
		t.CreatedAt,
		nullTimePtr(t.ClosedAt),
	)
	return err
}

func queryGetTask(ctx context.Context, db executor, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func queryListTasks(ctx context.Context, db executor, filter model.TaskFilter) ([]*model.Task, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.OwnerID != "" {
		whereClauses = append(whereClauses, "owner_id = "+nextArg())
		args = append(args, filter.OwnerID)
	}

	if filter.Closed != nil {
		whereClauses = append(whereClauses, "closed = "+nextArg())
		args = append(args, *filter.Closed)
	}

	if len(filter.Skills) > 0 {
		// Array overlap: any required skill present matches.
		whereClauses = append(whereClauses, "skills && "+nextArg())
		args = append(args, textArray(filter.Skills))
	}

	if len(filter.Visibility) > 0 {
		vis := make([]string, len(filter.Visibility))
		for i, v := range filter.Visibility {
			vis[i] = string(v)
		}
		whereClauses = append(whereClauses, "visibility = ANY("+nextArg()+")")
		args = append(args, textArray(vis))
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE '%%' || %s || '%%' OR description ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + taskColumns + " FROM tasks" + whereSQL +
		" ORDER BY " + parseSortClause(filter.Sort)

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	var total int
	for rows.Next() {
		t, n, err := scanTaskWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tasks: %w", err)
		}
		total = n
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan tasks: %w", err)
	}

	return tasks, total, nil
}

// parseSortClause converts a user-facing sort expression ("-created_at",
// "fee") to a safe ORDER BY clause, rejecting unknown columns.
func parseSortClause(sort string) string {
	if sort == "" {
		return "created_at DESC"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"created_at": true, "closed_at": true, "title": true, "fee": true,
	}
	if !allowed[col] {
		return "created_at DESC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func queryUpdateTask(ctx context.Context, db executor, t *model.Task) error {
	res, err := db.ExecContext(ctx, `
		UPDATE tasks SET
			title = $2,
			description = $3,
			visibility = $4,
			skills = $5,
			fee = $6,
			apply = $7
		WHERE id = $1`,
		t.ID,
		t.Title,
		t.Description,
		string(t.Visibility),
		textArray(t.Skills),
		t.Fee,
		t.Apply,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryCloseTask(ctx context.Context, db executor, id string, closedAt time.Time) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE tasks SET closed = TRUE, apply = FALSE, closed_at = $2
		WHERE id = $1
		RETURNING `+taskColumns,
		id, closedAt)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

const applicationColumns = `id, task_id, account_id, pitch, responded, accepted, responded_at, created_at`

func queryCreateApplication(ctx context.Context, db executor, a *model.Application) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO applications (
			id, task_id, account_id, pitch, responded, accepted, responded_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID,
		a.TaskID,
		a.AccountID,
		a.Pitch,
		a.Responded,
		a.Accepted,
		nullTimePtr(a.RespondedAt),
		a.CreatedAt,
	)
	return err
}

func queryGetApplication(ctx context.Context, db executor, id string) (*model.Application, error) {
	row := db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func queryListApplications(ctx context.Context, db executor, taskID string) ([]*model.Application, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE task_id = $1 ORDER BY created_at, id`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps, err := scanApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("scan applications: %w", err)
	}
	return apps, nil
}

func queryRespondApplication(ctx context.Context, db executor, id string, accepted bool, respondedAt time.Time) error {
	res, err := db.ExecContext(ctx,
		`UPDATE applications SET responded = TRUE, accepted = $2, responded_at = $3 WHERE id = $1`,
		id, accepted, respondedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

const participationColumns = `id, task_id, account_id, created_by_id, assignee,
	responded, accepted, share, responded_at, created_at`

func queryCreateParticipation(ctx context.Context, db executor, p *model.Participation) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO participations (
			id, task_id, account_id, created_by_id, assignee,
			responded, accepted, share, responded_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID,
		p.TaskID,
		p.AccountID,
		p.CreatedByID,
		p.Assignee,
		p.Responded,
		p.Accepted,
		p.Share,
		nullTimePtr(p.RespondedAt),
		p.CreatedAt,
	)
	return err
}

func queryGetParticipation(ctx context.Context, db executor, id string) (*model.Participation, error) {
	row := db.QueryRowContext(ctx, `SELECT `+participationColumns+` FROM participations WHERE id = $1`, id)
	p, err := scanParticipation(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func queryListParticipations(ctx context.Context, db executor, taskID string) ([]*model.Participation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+participationColumns+` FROM participations WHERE task_id = $1 ORDER BY created_at, id`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	defer rows.Close()

	parts, err := scanParticipations(rows)
	if err != nil {
		return nil, fmt.Errorf("scan participations: %w", err)
	}
	return parts, nil
}

func queryRespondParticipation(ctx context.Context, db executor, id string, accepted bool, respondedAt time.Time) error {
	res, err := db.ExecContext(ctx,
		`UPDATE participations SET responded = TRUE, accepted = $2, responded_at = $3 WHERE id = $1`,
		id, accepted, respondedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryCreateTaskRequest(ctx context.Context, db executor, r *model.TaskRequest) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO task_requests (id, task_id, account_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.TaskID, r.AccountID, string(r.Type), r.CreatedAt)
	return err
}

func queryGetTaskRequest(ctx context.Context, db executor, id string) (*model.TaskRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, task_id, account_id, type, created_at FROM task_requests WHERE id = $1`, id)
	r, err := scanTaskRequest(row)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

const progressEventColumns = `id, task_id, type, title, due_at, last_reminder_at, created_at`

func queryCreateProgressEvent(ctx context.Context, db executor, e *model.ProgressEvent) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO progress_events (
			id, task_id, type, title, due_at, last_reminder_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID,
		e.TaskID,
		string(e.Type),
		e.Title,
		e.DueAt,
		nullTimePtr(e.LastReminderAt),
		e.CreatedAt,
	)
	return err
}

func queryGetProgressEvent(ctx context.Context, db executor, id string) (*model.ProgressEvent, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+progressEventColumns+` FROM progress_events WHERE id = $1`, id)
	e, err := scanProgressEvent(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func queryListDueProgressEvents(ctx context.Context, db executor, dueBy time.Time) ([]*model.ProgressEvent, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+progressEventColumns+` FROM progress_events
		WHERE due_at <= $1 AND last_reminder_at IS NULL
		ORDER BY due_at, id`,
		dueBy)
	if err != nil {
		return nil, fmt.Errorf("list due progress events: %w", err)
	}
	defer rows.Close()

	var events []*model.ProgressEvent
	for rows.Next() {
		e, err := scanProgressEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress events: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan progress events: %w", err)
	}
	return events, nil
}

func queryStampProgressEventReminded(ctx context.Context, db executor, id string, remindedAt time.Time) error {
	// The IS NULL guard keeps concurrent reminder passes from moving an
	// already-recorded stamp.
	res, err := db.ExecContext(ctx,
		`UPDATE progress_events SET last_reminder_at = $2 WHERE id = $1 AND last_reminder_at IS NULL`,
		id, remindedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryCreateProgressReport(ctx context.Context, db executor, r *model.ProgressReport) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO progress_reports (
			id, event_id, account_id, status, percentage,
			accomplished, next_steps, remarks, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID,
		r.EventID,
		r.AccountID,
		string(r.Status),
		r.Percentage,
		r.Accomplished,
		r.NextSteps,
		r.Remarks,
		r.CreatedAt,
	)
	return err
}

func queryGetProgressReport(ctx context.Context, db executor, id string) (*model.ProgressReport, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, event_id, account_id, status, percentage,
			accomplished, next_steps, remarks, created_at
		FROM progress_reports WHERE id = $1`, id)
	r, err := scanProgressReport(row)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func queryCreateComment(ctx context.Context, db executor, c *model.Comment) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO comments (id, task_id, account_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.TaskID, c.AccountID, c.Body, c.CreatedAt)
	return err
}

func queryGetComment(ctx context.Context, db executor, id string) (*model.Comment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, task_id, account_id, body, created_at FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func queryCreateIntegration(ctx context.Context, db executor, i *model.Integration) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO integrations (id, task_id, provider, repo, issue_id, secret, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		i.ID, i.TaskID, i.Provider, i.Repo, i.IssueID, i.Secret, i.CreatedAt)
	return err
}

func queryGetIntegration(ctx context.Context, db executor, id string) (*model.Integration, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, task_id, provider, repo, issue_id, secret, created_at
		FROM integrations WHERE id = $1`, id)
	i, err := scanIntegration(row)
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

func queryCreateIntegrationActivity(ctx context.Context, db executor, a *model.IntegrationActivity) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO integration_activities (id, integration_id, event, actor, url, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.IntegrationID, a.Event, a.Actor, a.URL, a.Summary, a.CreatedAt)
	return err
}

func queryGetIntegrationActivity(ctx context.Context, db executor, id string) (*model.IntegrationActivity, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, integration_id, event, actor, url, summary, created_at
		FROM integration_activities WHERE id = $1`, id)
	a, err := scanIntegrationActivity(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}
