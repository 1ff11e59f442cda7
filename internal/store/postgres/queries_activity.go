package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/gigboard/gigboard/internal/model"
)

// activityColumns is the column list used for SELECT statements on the activities table.
const activityColumns = `id, actor_kind, actor_id, verb, object_kind, object_id,
	target_kind, target_id, created_at`

func queryRecordActivity(ctx context.Context, db executor, a *model.Activity) error {
	// The feed is append-only. The database assigns the sequence number so
	// ordering matches insertion even across writers.
	err := db.QueryRowContext(ctx, `
		INSERT INTO activities (
			actor_kind, actor_id, verb, object_kind, object_id,
			target_kind, target_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		string(a.Actor.Kind),
		a.Actor.ID,
		a.Verb,
		string(a.Object.Kind),
		a.Object.ID,
		string(a.Target.Kind),
		a.Target.ID,
		a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func queryListActivities(ctx context.Context, db executor, filter model.ActivityFilter) ([]*model.Activity, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Verb != "" {
		whereClauses = append(whereClauses, "verb = "+nextArg())
		args = append(args, filter.Verb)
	}
	if filter.ActorKind != "" {
		whereClauses = append(whereClauses, "actor_kind = "+nextArg())
		args = append(args, string(filter.ActorKind))
	}
	if filter.ActorID != "" {
		whereClauses = append(whereClauses, "actor_id = "+nextArg())
		args = append(args, filter.ActorID)
	}
	if filter.ObjectKind != "" {
		whereClauses = append(whereClauses, "object_kind = "+nextArg())
		args = append(args, string(filter.ObjectKind))
	}
	if filter.ObjectID != "" {
		whereClauses = append(whereClauses, "object_id = "+nextArg())
		args = append(args, filter.ObjectID)
	}
	if filter.Since != nil {
		whereClauses = append(whereClauses, "created_at >= "+nextArg())
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		whereClauses = append(whereClauses, "created_at <= "+nextArg())
		args = append(args, *filter.Until)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Newest first; id breaks ties between entries in the same instant.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + activityColumns +
		" FROM activities" + whereSQL + " ORDER BY created_at DESC, id DESC"

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
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []*model.Activity
	var total int
	for rows.Next() {
		a, n, err := scanActivityWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan activities: %w", err)
		}
		total = n
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan activities: %w", err)
	}

	return activities, total, nil
}
