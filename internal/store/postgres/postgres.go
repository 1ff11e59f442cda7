// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *model.Account) error {
	return queryCreateAccount(ctx, s.db, account)
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	return queryGetAccount(ctx, s.db, id)
}

func (s *PostgresStore) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return queryGetAccountByUsername(ctx, s.db, username)
}

func (s *PostgresStore) ListAccounts(ctx context.Context, filter model.AccountFilter) ([]*model.Account, error) {
	return queryListAccounts(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateAccountInfo(ctx context.Context, account *model.Account) error {
	return queryUpdateAccountInfo(ctx, s.db, account)
}

func (s *PostgresStore) CountCompletedTasks(ctx context.Context, accountIDs []string) (map[string]int, error) {
	return queryCountCompletedTasks(ctx, s.db, accountIDs)
}

func (s *PostgresStore) CreateDeveloperApplication(ctx context.Context, app *model.DeveloperApplication) error {
	return queryCreateDeveloperApplication(ctx, s.db, app)
}

func (s *PostgresStore) GetDeveloperApplicationByKey(ctx context.Context, confirmationKey string) (*model.DeveloperApplication, error) {
	return queryGetDeveloperApplicationByKey(ctx, s.db, confirmationKey)
}

func (s *PostgresStore) MarkDeveloperApplicationUsed(ctx context.Context, id string, usedAt time.Time) error {
	return queryMarkDeveloperApplicationUsed(ctx, s.db, id, usedAt)
}

func (s *PostgresStore) CreateConnection(ctx context.Context, conn *model.Connection) error {
	return queryCreateConnection(ctx, s.db, conn)
}

func (s *PostgresStore) GetConnection(ctx context.Context, id string) (*model.Connection, error) {
	return queryGetConnection(ctx, s.db, id)
}

func (s *PostgresStore) RespondConnection(ctx context.Context, id string, accepted bool, respondedAt time.Time) error {
	return queryRespondConnection(ctx, s.db, id, accepted, respondedAt)
}

func (s *PostgresStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.db, task)
}

func (s *PostgresStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.db, id)
}

func (s *PostgresStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	return queryListTasks(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.db, task)
}

func (s *PostgresStore) CloseTask(ctx context.Context, id string, closedAt time.Time) (*model.Task, error) {
	return queryCloseTask(ctx, s.db, id, closedAt)
}

func (s *PostgresStore) CreateApplication(ctx context.Context, app *model.Application) error {
	return queryCreateApplication(ctx, s.db, app)
}

func (s *PostgresStore) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	return queryGetApplication(ctx, s.db, id)
}

func (s *PostgresStore) ListApplications(ctx context.Context, taskID string) ([]*model.Application, error) {
	return queryListApplications(ctx, s.db, taskID)
}

func (s *PostgresStore) RespondApplication(ctx context.Context, id string, accepted bool, respondedAt time.Time) error {
	return queryRespondApplication(ctx, s.db, id, accepted, respondedAt)
}

func (s *PostgresStore) CreateParticipation(ctx context.Context, part *model.Participation) error {
	return queryCreateParticipation(ctx, s.db, part)
}

func (s *PostgresStore) GetParticipation(ctx context.Context, id string) (*model.Participation, error) {
	return queryGetParticipation(ctx, s.db, id)
}

func (s *PostgresStore) ListParticipations(ctx context.Context, taskID string) ([]*model.Participation, error) {
	return queryListParticipations(ctx, s.db, taskID)
}

func (s *PostgresStore) RespondParticipation(ctx context.Context, id string, accepted bool, respondedAt time.Time) error {
	return queryRespondParticipation(ctx, s.db, id, accepted, respondedAt)
}

func (s *PostgresStore) CreateTaskRequest(ctx context.Context, req *model.TaskRequest) error {
	return queryCreateTaskRequest(ctx, s.db, req)
}

func (s *PostgresStore) GetTaskRequest(ctx context.Context, id string) (*model.TaskRequest, error) {
	return queryGetTaskRequest(ctx, s.db, id)
}

func (s *PostgresStore) CreateProgressEvent(ctx context.Context, event *model.ProgressEvent) error {
	return queryCreateProgressEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetProgressEvent(ctx context.Context, id string) (*model.ProgressEvent, error) {
	return queryGetProgressEvent(ctx, s.db, id)
}

func (s *PostgresStore) ListDueProgressEvents(ctx context.Context, dueBy time.Time) ([]*model.ProgressEvent, error) {
	return queryListDueProgressEvents(ctx, s.db, dueBy)
}

func (s *PostgresStore) StampProgressEventReminded(ctx context.Context, id string, remindedAt time.Time) error {
	return queryStampProgressEventReminded(ctx, s.db, id, remindedAt)
}

func (s *PostgresStore) CreateProgressReport(ctx context.Context, report *model.ProgressReport) error {
	return queryCreateProgressReport(ctx, s.db, report)
}

func (s *PostgresStore) GetProgressReport(ctx context.Context, id string) (*model.ProgressReport, error) {
	return queryGetProgressReport(ctx, s.db, id)
}

func (s *PostgresStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	return queryCreateComment(ctx, s.db, comment)
}

func (s *PostgresStore) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	return queryGetComment(ctx, s.db, id)
}

func (s *PostgresStore) CreateIntegration(ctx context.Context, integration *model.Integration) error {
	return queryCreateIntegration(ctx, s.db, integration)
}

func (s *PostgresStore) GetIntegration(ctx context.Context, id string) (*model.Integration, error) {
	return queryGetIntegration(ctx, s.db, id)
}

func (s *PostgresStore) CreateIntegrationActivity(ctx context.Context, activity *model.IntegrationActivity) error {
	return queryCreateIntegrationActivity(ctx, s.db, activity)
}

func (s *PostgresStore) GetIntegrationActivity(ctx context.Context, id string) (*model.IntegrationActivity, error) {
	return queryGetIntegrationActivity(ctx, s.db, id)
}

func (s *PostgresStore) RecordActivity(ctx context.Context, activity *model.Activity) error {
	return queryRecordActivity(ctx, s.db, activity)
}

func (s *PostgresStore) ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, int, error) {
	return queryListActivities(ctx, s.db, filter)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateAccount(ctx context.Context, account *model.Account) error {
	return queryCreateAccount(ctx, s.tx, account)
}

func (s *txStore) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	return queryGetAccount(ctx, s.tx, id)
}

func (s *txStore) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return queryGetAccountByUsername(ctx, s.tx, username)
}

func (s *txStore) ListAccounts(ctx context.Context, filter model.AccountFilter) ([]*model.Account, error) {
	return queryListAccounts(ctx, s.tx, filter)
}

func (s *txStore) UpdateAccountInfo(ctx context.Context, account *model.Account) error {
	return queryUpdateAccountInfo(ctx, s.tx, account)
}

func (s *txStore) CountCompletedTasks(ctx context.Context, accountIDs []string) (map[string]int, error) {
	return queryCountCompletedTasks(ctx, s.tx, accountIDs)
}

func (s *txStore) CreateDeveloperApplication(ctx context.Context, app *model.DeveloperApplication) error {
	return queryCreateDeveloperApplication(ctx, s.tx, app)
}

func (s *txStore) GetDeveloperApplicationByKey(ctx context.Context, confirmationKey string) (*model.DeveloperApplication, error) {
	return queryGetDeveloperApplicationByKey(ctx, s.tx, confirmationKey)
}

func (s *txStore) MarkDeveloperApplicationUsed(ctx context.Context, id string, usedAt time.Time) error {
	return queryMarkDeveloperApplicationUsed(ctx, s.tx, id, usedAt)
}

func (s *txStore) CreateConnection(ctx context.Context, conn *model.Connection) error {
	return queryCreateConnection(ctx, s.tx, conn)
}

func (s *txStore) GetConnection(ctx context.Context, id string) (*model.Connection, error) {
	return queryGetConnection(ctx, s.tx, id)
}

func (s *txStore) RespondConnection(ctx context.Context, id string, accepted bool, respondedAt time.Time) error {
	return queryRespondConnection(ctx, s.tx, id, accepted, respondedAt)
}

func (s *txStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.tx, task)
}

func (s *txStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.tx, id)
}

func (s *txStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	return queryListTasks(ctx, s.tx, filter)
}

func (s *txStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.tx, task)
}

func (s *txStore) CloseTask(ctx context.Context, id string, closedAt time.Time) (*model.Task, error) {
	return queryCloseTask(ctx, s.tx, id, closedAt)
}

func (s *txStore) CreateApplication(ctx context.Context, app *model.Application) error {
	return queryCreateApplication(ctx, s.tx, app)
}

func (s *txStore) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	return queryGetApplication(ctx, s.tx, id)
}

func (s *txStore) ListApplications(ctx context.Context, taskID string) ([]*model.Application, error) {
	return queryListApplications(ctx, s.tx, taskID)
}

func (s *txStore) RespondApplication(ctx context.Context, id string, accepted bool, respondedAt time.Time) error {
	return queryRespondApplication(ctx, s.tx, id, accepted, respondedAt)
}

func (s *txStore) CreateParticipation(ctx context.Context, part *model.Participation) error {
	return queryCreateParticipation(ctx, s.tx, part)
}

func (s *txStore) GetParticipation(ctx context.Context, id string) (*model.Participation, error) {
	return queryGetParticipation(ctx, s.tx, id)
}

func (s *txStore) ListParticipations(ctx context.Context, taskID string) ([]*model.Participation, error) {
	return queryListParticipations(ctx, s.tx, taskID)
}

func (s *txStore) RespondParticipation(ctx context.Context, id string, accepted bool, respondedAt time.Time) error {
	return queryRespondParticipation(ctx, s.tx, id, accepted, respondedAt)
}

func (s *txStore) CreateTaskRequest(ctx context.Context, req *model.TaskRequest) error {
	return queryCreateTaskRequest(ctx, s.tx, req)
}

func (s *txStore) GetTaskRequest(ctx context.Context, id string) (*model.TaskRequest, error) {
	return queryGetTaskRequest(ctx, s.tx, id)
}

func (s *txStore) CreateProgressEvent(ctx context.Context, event *model.ProgressEvent) error {
	return queryCreateProgressEvent(ctx, s.tx, event)
}

func (s *txStore) GetProgressEvent(ctx context.Context, id string) (*model.ProgressEvent, error) {
	return queryGetProgressEvent(ctx, s.tx, id)
}

func (s *txStore) ListDueProgressEvents(ctx context.Context, dueBy time.Time) ([]*model.ProgressEvent, error) {
	return queryListDueProgressEvents(ctx, s.tx, dueBy)
}

func (s *txStore) StampProgressEventReminded(ctx context.Context, id string, remindedAt time.Time) error {
	return queryStampProgressEventReminded(ctx, s.tx, id, remindedAt)
}

func (s *txStore) CreateProgressReport(ctx context.Context, report *model.ProgressReport) error {
	return queryCreateProgressReport(ctx, s.tx, report)
}

func (s *txStore) GetProgressReport(ctx context.Context, id string) (*model.ProgressReport, error) {
	return queryGetProgressReport(ctx, s.tx, id)
}

func (s *txStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	return queryCreateComment(ctx, s.tx, comment)
}

func (s *txStore) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	return queryGetComment(ctx, s.tx, id)
}

func (s *txStore) CreateIntegration(ctx context.Context, integration *model.Integration) error {
	return queryCreateIntegration(ctx, s.tx, integration)
}

func (s *txStore) GetIntegration(ctx context.Context, id string) (*model.Integration, error) {
	return queryGetIntegration(ctx, s.tx, id)
}

func (s *txStore) CreateIntegrationActivity(ctx context.Context, activity *model.IntegrationActivity) error {
	return queryCreateIntegrationActivity(ctx, s.tx, activity)
}

func (s *txStore) GetIntegrationActivity(ctx context.Context, id string) (*model.IntegrationActivity, error) {
	return queryGetIntegrationActivity(ctx, s.tx, id)
}

func (s *txStore) RecordActivity(ctx context.Context, activity *model.Activity) error {
	return queryRecordActivity(ctx, s.tx, activity)
}

func (s *txStore) ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, int, error) {
	return queryListActivities(ctx, s.tx, filter)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
