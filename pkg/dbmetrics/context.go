package dbmetrics

import "context"

type txContextKey struct{}

// WithExecutor кладет активную транзакцию в context.
// Репозитории через GetExecutor автоматически используют ее вместо пула.
func WithExecutor(ctx context.Context, exec DBExecutor) context.Context {
	return context.WithValue(ctx, txContextKey{}, exec)
}

// GetExecutor возвращает исполнителя запросов из context (активную транзакцию),
// либо fallback, если транзакции нет
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if exec, ok := ctx.Value(txContextKey{}).(DBExecutor); ok {
		return exec
	}
	return fallback
}

// IsInTransaction сообщает, выполняется ли запрос внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txContextKey{}).(DBExecutor)
	return ok
}
