package repository

import (
	"context"
	"fmt"
)

// ListUserRoles возвращает роли пользователя. Отсутствие ролей — не ошибка,
// возвращается пустой срез.
func (s *Storage) ListUserRoles(ctx context.Context, userUID string) ([]string, error) {
	const op = "storage.ListUserRoles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_uid = $1 ORDER BY role`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roles, nil
}

// ReplaceUserRoles заменяет все роли пользователя одной указанной ролью
// в одной транзакции. Назначение роли замещает существующий набор,
// а не дополняет его.
func (s *Storage) ReplaceUserRoles(ctx context.Context, userUID, role string) error {
	const op = "storage.ReplaceUserRoles"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_roles (user_uid, role) VALUES ($1, $2)`, userUID, role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
