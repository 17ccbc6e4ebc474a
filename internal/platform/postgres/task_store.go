package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend. Assignees live in
// the task_assignees join table and are folded into the returned records.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// teamIDValue maps uuid.Nil to a SQL NULL for the optional team column.
func teamIDValue(teamID uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: teamID, Valid: teamID != uuid.Nil}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.TaskRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, team_id, status, priority, category, created_at, due_date, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		teamIDValue(task.TeamID),
		task.Status,
		task.Priority,
		task.Category,
		task.CreatedAt,
		task.DueDate,
		task.CompletedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := s.insertAssignees(ctx, task.ID, task.AssignedUserIDs); err != nil {
		log.Error("failed to create task assignees",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.Int("assignee_count", len(task.AssignedUserIDs)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, team_id, status, priority, category, created_at, due_date, completed_at
		FROM tasks
		WHERE id = $1
	`
	task, err := s.scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	assignees, err := s.loadAssignees(ctx, []uuid.UUID{task.ID})
	if err != nil {
		log.Error("failed to load task assignees",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	task.AssignedUserIDs = assignees[task.ID]

	return task, nil
}

// Update implements store.TaskStore.Update
// The assignee set is replaced wholesale to match the given record.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.TaskRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET team_id = $2, status = $3, priority = $4, category = $5, due_date = $6, completed_at = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		teamIDValue(task.TeamID),
		task.Status,
		task.Priority,
		task.Category,
		task.DueDate,
		task.CompletedAt,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM task_assignees WHERE task_id = $1`, task.ID); err != nil {
		log.Error("failed to clear task assignees",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	if err := s.insertAssignees(ctx, task.ID, task.AssignedUserIDs); err != nil {
		log.Error("failed to replace task assignees",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	return nil
}

// Delete implements store.TaskStore.Delete
// Assignee rows go with the task through ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Debug("task deleted", slog.String("task_id", id.String()))
	return nil
}

// GetTasksByAssignedUser implements store.TaskStore.GetTasksByAssignedUser
func (s *PostgresTaskStore) GetTasksByAssignedUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskRecord, error) {
	query := `
		SELECT t.id, t.team_id, t.status, t.priority, t.category, t.created_at, t.due_date, t.completed_at
		FROM tasks t
		JOIN task_assignees ta ON ta.task_id = t.id
		WHERE ta.user_id = $1
		ORDER BY t.created_at DESC
	`
	return s.queryTasks(ctx, query, userID)
}

// GetTasksByTeam implements store.TaskStore.GetTasksByTeam
func (s *PostgresTaskStore) GetTasksByTeam(
	ctx context.Context,
	teamID uuid.UUID,
) ([]*domain.TaskRecord, error) {
	query := `
		SELECT id, team_id, status, priority, category, created_at, due_date, completed_at
		FROM tasks
		WHERE team_id = $1
		ORDER BY created_at DESC
	`
	return s.queryTasks(ctx, query, teamID)
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row, excluding assignees.
func (s *PostgresTaskStore) scanTask(row rowScanner) (*domain.TaskRecord, error) {
	var task domain.TaskRecord
	var teamID uuid.NullUUID
	var completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&teamID,
		&task.Status,
		&task.Priority,
		&task.Category,
		&task.CreatedAt,
		&task.DueDate,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if teamID.Valid {
		task.TeamID = teamID.UUID
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	return &task, nil
}

// queryTasks runs a multi-row task query and folds in assignees with one
// additional query instead of one per task.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	arg any,
) ([]*domain.TaskRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.TaskRecord
	var ids []uuid.UUID
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
		ids = append(ids, task.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if len(tasks) == 0 {
		return []*domain.TaskRecord{}, nil
	}

	assignees, err := s.loadAssignees(ctx, ids)
	if err != nil {
		log.Error("failed to load assignees for task list", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	for _, task := range tasks {
		task.AssignedUserIDs = assignees[task.ID]
	}

	return tasks, nil
}

// loadAssignees fetches the assignee sets for the given task IDs.
func (s *PostgresTaskStore) loadAssignees(
	ctx context.Context,
	taskIDs []uuid.UUID,
) (map[uuid.UUID][]uuid.UUID, error) {
	query := `
		SELECT task_id, user_id
		FROM task_assignees
		WHERE task_id = ANY($1::uuid[])
		ORDER BY task_id, user_id
	`
	// The driver binds []string as a text array; the cast narrows it.
	idStrings := make([]string, len(taskIDs))
	for i, id := range taskIDs {
		idStrings[i] = id.String()
	}
	rows, err := s.db.QueryContext(ctx, query, idStrings)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	assignees := make(map[uuid.UUID][]uuid.UUID, len(taskIDs))
	for rows.Next() {
		var taskID, userID uuid.UUID
		if err := rows.Scan(&taskID, &userID); err != nil {
			return nil, err
		}
		assignees[taskID] = append(assignees[taskID], userID)
	}
	return assignees, rows.Err()
}

// insertAssignees writes the assignee rows for one task.
func (s *PostgresTaskStore) insertAssignees(
	ctx context.Context,
	taskID uuid.UUID,
	userIDs []uuid.UUID,
) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := `INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2)`
	for _, userID := range userIDs {
		if _, err := s.db.ExecContext(ctx, query, taskID, userID); err != nil {
			return err
		}
	}
	return nil
}
