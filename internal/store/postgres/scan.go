package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/gigboard/gigboard/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanAccount scans a single row into a model.Account.
// The row must contain columns in the order defined by accountColumns.
func scanAccount(row scannable) (*model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.FirstName,
		&a.LastName,
		&a.Type,
		&a.Staff,
		&a.PasswordHash,
		pq.Array(&a.Skills),
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// scanAccounts scans multiple rows into a slice of model.Account pointers.
func scanAccounts(rows *sql.Rows) ([]*model.Account, error) {
	var accounts []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// scanDeveloperApplication scans a single row into a model.DeveloperApplication.
func scanDeveloperApplication(row scannable) (*model.DeveloperApplication, error) {
	var d model.DeveloperApplication
	var usedAt sql.NullTime
	err := row.Scan(
		&d.ID,
		&d.Email,
		&d.ConfirmationKey,
		&d.PhoneNumber,
		&d.Country,
		&d.City,
		&d.Used,
		&usedAt,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.UsedAt = timePtr(usedAt)
	return &d, nil
}

// scanConnection scans a single row into a model.Connection.
func scanConnection(row scannable) (*model.Connection, error) {
	var c model.Connection
	var respondedAt sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.FromID,
		&c.ToID,
		&c.Responded,
		&c.Accepted,
		&respondedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.RespondedAt = timePtr(respondedAt)
	return &c, nil
}

// scanTask scans a single row into a model.Task.
// The row must contain columns in the order defined by taskColumns.
func scanTask(row scannable) (*model.Task, error) {
	var t model.Task
	var closedAt sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Visibility,
		pq.Array(&t.Skills),
		&t.Fee,
		&t.Apply,
		&t.Closed,
		&t.CreatedAt,
		&closedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ClosedAt = timePtr(closedAt)
	return &t, nil
}

// scanTaskWithTotal scans a row that has a leading total_count column
// followed by the standard task columns. Used by queryListTasks with
// COUNT(*) OVER().
func scanTaskWithTotal(row scannable) (*model.Task, int, error) {
	var total int
	var t model.Task
	var closedAt sql.NullTime
	err := row.Scan(
		&total,
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Visibility,
		pq.Array(&t.Skills),
		&t.Fee,
		&t.Apply,
		&t.Closed,
		&t.CreatedAt,
		&closedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	t.ClosedAt = timePtr(closedAt)
	return &t, total, nil
}

// scanApplication scans a single row into a model.Application.
func scanApplication(row scannable) (*model.Application, error) {
	var a model.Application
	var respondedAt sql.NullTime
	err := row.Scan(
		&a.ID,
		&a.TaskID,
		&a.AccountID,
		&a.Pitch,
		&a.Responded,
		&a.Accepted,
		&respondedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.RespondedAt = timePtr(respondedAt)
	return &a, nil
}

// scanApplications scans multiple rows into a slice of model.Application pointers.
func scanApplications(rows *sql.Rows) ([]*model.Application, error) {
	var apps []*model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// scanParticipation scans a single row into a model.Participation.
func scanParticipation(row scannable) (*model.Participation, error) {
	var p model.Participation
	var respondedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.TaskID,
		&p.AccountID,
		&p.CreatedByID,
		&p.Assignee,
		&p.Responded,
		&p.Accepted,
		&p.Share,
		&respondedAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.RespondedAt = timePtr(respondedAt)
	return &p, nil
}

// scanParticipations scans multiple rows into a slice of model.Participation pointers.
func scanParticipations(rows *sql.Rows) ([]*model.Participation, error) {
	var parts []*model.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

// scanTaskRequest scans a single row into a model.TaskRequest.
func scanTaskRequest(row scannable) (*model.TaskRequest, error) {
	var r model.TaskRequest
	err := row.Scan(&r.ID, &r.TaskID, &r.AccountID, &r.Type, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// scanProgressEvent scans a single row into a model.ProgressEvent.
func scanProgressEvent(row scannable) (*model.ProgressEvent, error) {
	var e model.ProgressEvent
	var lastReminderAt sql.NullTime
	err := row.Scan(
		&e.ID,
		&e.TaskID,
		&e.Type,
		&e.Title,
		&e.DueAt,
		&lastReminderAt,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.LastReminderAt = timePtr(lastReminderAt)
	return &e, nil
}

// scanProgressReport scans a single row into a model.ProgressReport.
func scanProgressReport(row scannable) (*model.ProgressReport, error) {
	var r model.ProgressReport
	err := row.Scan(
		&r.ID,
		&r.EventID,
		&r.AccountID,
		&r.Status,
		&r.Percentage,
		&r.Accomplished,
		&r.NextSteps,
		&r.Remarks,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// scanComment scans a single row into a model.Comment.
func scanComment(row scannable) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.TaskID, &c.AccountID, &c.Body, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanIntegration scans a single row into a model.Integration.
func scanIntegration(row scannable) (*model.Integration, error) {
	var i model.Integration
	err := row.Scan(
		&i.ID,
		&i.TaskID,
		&i.Provider,
		&i.Repo,
		&i.IssueID,
		&i.Secret,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// scanIntegrationActivity scans a single row into a model.IntegrationActivity.
func scanIntegrationActivity(row scannable) (*model.IntegrationActivity, error) {
	var a model.IntegrationActivity
	err := row.Scan(
		&a.ID,
		&a.IntegrationID,
		&a.Event,
		&a.Actor,
		&a.URL,
		&a.Summary,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// scanActivityWithTotal scans a row that has a leading total_count column
// followed by the standard activity columns.
func scanActivityWithTotal(row scannable) (*model.Activity, int, error) {
	var total int
	var a model.Activity
	err := row.Scan(
		&total,
		&a.ID,
		&a.Actor.Kind,
		&a.Actor.ID,
		&a.Verb,
		&a.Object.Kind,
		&a.Object.ID,
		&a.Target.Kind,
		&a.Target.ID,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	return &a, total, nil
}

// timePtr converts a sql.NullTime to a *time.Time.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// textArray converts a string slice to a pq array value, normalizing nil
// to an empty array so the column never stores NULL.
func textArray(s []string) any {
	if s == nil {
		s = []string{}
	}
	return pq.Array(s)
}
