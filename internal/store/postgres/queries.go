package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// accountColumns is the column list used for SELECT statements on the accounts table.
const accountColumns = `id, username, email, first_name, last_name, type,
	staff, password_hash, skills, created_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// notFound maps sql.ErrNoRows to store.ErrNotFound so callers never see
// driver-level sentinels.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func queryCreateAccount(ctx context.Context, db executor, a *model.Account) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, username, email, first_name, last_name, type,
			staff, password_hash, skills, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID,
		a.Username,
		a.Email,
		a.FirstName,
		a.LastName,
		string(a.Type),
		a.Staff,
		a.PasswordHash,
		textArray(a.Skills),
		a.CreatedAt,
	)
	return err
}

func queryGetAccount(ctx context.Context, db executor, id string) (*model.Account, error) {
	row := db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func queryGetAccountByUsername(ctx context.Context, db executor, username string) (*model.Account, error) {
	row := db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	a, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func queryListAccounts(ctx context.Context, db executor, filter model.AccountFilter) ([]*model.Account, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Type != "" {
		whereClauses = append(whereClauses, "type = "+nextArg())
		args = append(args, string(filter.Type))
	}

	if filter.ConnectedTo != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("EXISTS (SELECT 1 FROM connections c WHERE c.accepted AND "+
				"((c.from_id = %s AND c.to_id = accounts.id) OR (c.to_id = %s AND c.from_id = accounts.id)))", p, p))
		args = append(args, filter.ConnectedTo)
	}

	if filter.Skill != "" {
		p := nextArg()
		whereClauses = append(whereClauses, fmt.Sprintf("%s = ANY(skills)", p))
		args = append(args, filter.Skill)
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(username ILIKE '%%' || %s || '%%' OR first_name ILIKE '%%' || %s || '%%' "+
				"OR last_name ILIKE '%%' || %s || '%%' OR email ILIKE '%%' || %s || '%%')", p, p, p, p))
		args = append(args, filter.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Order is part of the contract: recipient ranking is a stable sort
	// over this pool, so two calls must return the same sequence.
	query := `SELECT ` + accountColumns + ` FROM accounts` + whereSQL + ` ORDER BY created_at, id`

	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("scan accounts: %w", err)
	}
	return accounts, nil
}

func queryUpdateAccountInfo(ctx context.Context, db executor, a *model.Account) error {
	res, err := db.ExecContext(ctx, `
		UPDATE accounts SET
			email = $2,
			first_name = $3,
			last_name = $4,
			password_hash = $5,
			skills = $6
		WHERE id = $1`,
		a.ID,
		a.Email,
		a.FirstName,
		a.LastName,
		a.PasswordHash,
		textArray(a.Skills),
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

func queryCountCompletedTasks(ctx context.Context, db executor, accountIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(accountIDs))
	if len(accountIDs) == 0 {
		return counts, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT p.account_id, COUNT(*)
		FROM participations p
		JOIN tasks t ON t.id = p.task_id
		WHERE p.accepted AND t.closed AND p.account_id = ANY($1)
		GROUP BY p.account_id`,
		pq.Array(accountIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("count completed tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan completed counts: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan completed counts: %w", err)
	}
	return counts, nil
}

const developerApplicationColumns = `id, email, confirmation_key, phone_number,
	country, city, used, used_at, created_at`

func queryCreateDeveloperApplication(ctx context.Context, db executor, d *model.DeveloperApplication) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO developer_applications (
			id, email, confirmation_key, phone_number, country, city, used, used_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID,
		d.Email,
		d.ConfirmationKey,
		d.PhoneNumber,
		d.Country,
		d.City,
		d.Used,
		nullTimePtr(d.UsedAt),
		d.CreatedAt,
	)
	return err
}

func queryGetDeveloperApplicationByKey(ctx context.Context, db executor, key string) (*model.DeveloperApplication, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+developerApplicationColumns+` FROM developer_applications WHERE confirmation_key = $1`, key)
	d, err := scanDeveloperApplication(row)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func queryMarkDeveloperApplicationUsed(ctx context.Context, db executor, id string, usedAt time.Time) error {
	// The used guard makes the consume idempotence-safe under races: only
	// one caller observes an affected row.
	res, err := db.ExecContext(ctx,
		`UPDATE developer_applications SET used = TRUE, used_at = $2 WHERE id = $1 AND NOT used`,
		id, usedAt)
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

const connectionColumns = `id, from_id, to_id, responded, accepted, responded_at, created_at`

func queryCreateConnection(ctx context.Context, db executor, c *model.Connection) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO connections (
			id, from_id, to_id, responded, accepted, responded_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID,
		c.FromID,
		c.ToID,
		c.Responded,
		c.Accepted,
		nullTimePtr(c.RespondedAt),
		c.CreatedAt,
	)
	return err
}

func queryGetConnection(ctx context.Context, db executor, id string) (*model.Connection, error) {
	row := db.QueryRowContext(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id)
	c, err := scanConnection(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func queryRespondConnection(ctx context.Context, db executor, id string, accepted bool, respondedAt time.Time) error {
	res, err := db.ExecContext(ctx,
		`UPDATE connections SET responded = TRUE, accepted = $2, responded_at = $3 WHERE id = $1`,
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
