package repo

import (
	"context"
	"errors"
	"time"

	"github.com/BuzzLyutic/task-planner-api/internal/model"
)

var (
	ErrorNotFound          = errors.New("not found")
	ErrorDuplicateUsername = errors.New("username already exists")
	ErrorKeyPending        = errors.New("idempotency key is reserved but not saved yet")
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context, userID int64) ([]model.Task, error)
	Delete(ctx context.Context, id int64) error
	SetCompletion(ctx context.Context, id int64, completed bool) (model.Task, error)
}

// UserRepository - реестр пользователей
type UserRepository interface {
	Create(ctx context.Context, username, password string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// KeyStore хранит ключи идемпотентности: ключ -> id созданной задачи.
// Reserve захватывает ключ до создания ресурса, только первый вызов получает true.
// Get по захваченному, но еще не сохраненному ключу возвращает ErrorKeyPending.
type KeyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Save(ctx context.Context, key string, resourceID int64, ttl time.Duration) error
	Get(ctx context.Context, key string) (int64, error)
	Release(ctx context.Context, key string) error
}
