package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-planner-api/internal/model"
)

const taskColumns = `id, user_id, text, time, priority, completed`

type PgTaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewPgTaskRepo(pool *pgxpool.Pool) *PgTaskRepo {
	return &PgTaskRepo{
		pool: pool,
	}
}

func (r *PgTaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, text, time, priority, completed)
		VALUES ($1, $2, $3, $4, false)
		RETURNING `+taskColumns,
		int64(t.UserID), t.Text, t.Time, string(t.Priority),
	)
	created, err := scanTask(row)
	return created, mapError(err)
}

func (r *PgTaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	return t, mapError(err)
}

func (r *PgTaskRepo) List(ctx context.Context, userID int64) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PgTaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	return err
}

func (r *PgTaskRepo) SetCompletion(ctx context.Context, id int64, completed bool) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET completed = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns,
		id, completed,
	)
	t, err := scanTask(row)
	return t, mapError(err)
}

type PgUserRepo struct {
	pool *pgxpool.Pool
}

func NewPgUserRepo(pool *pgxpool.Pool) *PgUserRepo {
	return &PgUserRepo{pool: pool}
}

func (r *PgUserRepo) Create(ctx context.Context, username, password string) (model.User, error) {
	u := model.User{Username: username, Password: password}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id
	`, username, password).Scan(&u.ID)
	return u, mapError(err)
}

func (r *PgUserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.Password)
	return u, mapError(err)
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t        model.Task
		userID   int64
		priority string
	)
	err := row.Scan(&t.ID, &userID, &t.Text, &t.Time, &priority, &t.Completed)
	t.UserID = model.ID(userID)
	t.Priority = model.Priority(priority)
	return t, err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique_violation: единственный уникальный индекс - users.username
			return ErrorDuplicateUsername
		}
	}
	return err
}
