package storage

import (
	"context"
)

const listShortcuts = `SELECT id, name, url, sort_order FROM shortcuts ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListShortcuts(ctx context.Context) ([]Shortcut, error) {
	rows, err := q.db.QueryContext(ctx, listShortcuts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Shortcut
	for rows.Next() {
		var i Shortcut
		if err := rows.Scan(&i.ID, &i.Name, &i.Url, &i.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertShortcut = `INSERT INTO shortcuts (id, name, url, sort_order) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, url = excluded.url, sort_order = excluded.sort_order`

type UpsertShortcutParams struct {
	ID        string
	Name      string
	Url       string
	SortOrder int64
}

func (q *Queries) UpsertShortcut(ctx context.Context, arg UpsertShortcutParams) error {
	_, err := q.db.ExecContext(ctx, upsertShortcut, arg.ID, arg.Name, arg.Url, arg.SortOrder)
	return err
}

const deleteShortcut = `DELETE FROM shortcuts WHERE id = ?`

func (q *Queries) DeleteShortcut(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteShortcut, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateShortcutOrder = `UPDATE shortcuts SET sort_order = ? WHERE id = ?`

func (q *Queries) UpdateShortcutOrder(ctx context.Context, id string, sortOrder int64) error {
	_, err := q.db.ExecContext(ctx, updateShortcutOrder, sortOrder, id)
	return err
}

const listHabits = `SELECT id, name, created_at FROM habits ORDER BY created_at ASC, id ASC`

func (q *Queries) ListHabits(ctx context.Context) ([]Habit, error) {
	rows, err := q.db.QueryContext(ctx, listHabits)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Habit
	for rows.Next() {
		var i Habit
		if err := rows.Scan(&i.ID, &i.Name, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCompletions = `SELECT habit_id, day FROM habit_completions ORDER BY habit_id, day`

func (q *Queries) ListCompletions(ctx context.Context) ([]HabitCompletion, error) {
	rows, err := q.db.QueryContext(ctx, listCompletions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []HabitCompletion
	for rows.Next() {
		var i HabitCompletion
		if err := rows.Scan(&i.HabitID, &i.Day); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertHabit = `INSERT INTO habits (id, name, created_at) VALUES (?, ?, ?)`

func (q *Queries) InsertHabit(ctx context.Context, arg Habit) error {
	_, err := q.db.ExecContext(ctx, insertHabit, arg.ID, arg.Name, arg.CreatedAt)
	return err
}

const deleteHabit = `DELETE FROM habits WHERE id = ?`

func (q *Queries) DeleteHabit(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteHabit, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteHabitCompletions = `DELETE FROM habit_completions WHERE habit_id = ?`

func (q *Queries) DeleteHabitCompletions(ctx context.Context, habitID string) error {
	_, err := q.db.ExecContext(ctx, deleteHabitCompletions, habitID)
	return err
}

const habitExists = `SELECT EXISTS(SELECT 1 FROM habits WHERE id = ?)`

func (q *Queries) HabitExists(ctx context.Context, id string) (bool, error) {
	row := q.db.QueryRowContext(ctx, habitExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const deleteCompletion = `DELETE FROM habit_completions WHERE habit_id = ? AND day = ?`

func (q *Queries) DeleteCompletion(ctx context.Context, arg HabitCompletion) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCompletion, arg.HabitID, arg.Day)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const insertCompletion = `INSERT INTO habit_completions (habit_id, day) VALUES (?, ?)`

func (q *Queries) InsertCompletion(ctx context.Context, arg HabitCompletion) error {
	_, err := q.db.ExecContext(ctx, insertCompletion, arg.HabitID, arg.Day)
	return err
}

const splitExpenseColumns = `id, payer, amount, participants, description, created_at, sync_status, synced_at`

func scanSplitExpense(scan func(dest ...any) error) (SplitExpense, error) {
	var i SplitExpense
	err := scan(&i.ID, &i.Payer, &i.Amount, &i.Participants, &i.Description, &i.CreatedAt, &i.SyncStatus, &i.SyncedAt)
	return i, err
}

func (q *Queries) querySplitExpenses(ctx context.Context, query string, args ...any) ([]SplitExpense, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SplitExpense
	for rows.Next() {
		i, err := scanSplitExpense(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSplitExpenses = `SELECT ` + splitExpenseColumns + ` FROM split_expenses ORDER BY created_at ASC, id ASC`

func (q *Queries) ListSplitExpenses(ctx context.Context) ([]SplitExpense, error) {
	return q.querySplitExpenses(ctx, listSplitExpenses)
}

const pendingSplitExpenses = `SELECT ` + splitExpenseColumns + ` FROM split_expenses
WHERE sync_status != 'synced' ORDER BY created_at ASC, id ASC LIMIT ?`

func (q *Queries) PendingSplitExpenses(ctx context.Context, limit int64) ([]SplitExpense, error) {
	return q.querySplitExpenses(ctx, pendingSplitExpenses, limit)
}

const getSplitExpense = `SELECT ` + splitExpenseColumns + ` FROM split_expenses WHERE id = ?`

func (q *Queries) GetSplitExpense(ctx context.Context, id string) (SplitExpense, error) {
	row := q.db.QueryRowContext(ctx, getSplitExpense, id)
	return scanSplitExpense(row.Scan)
}

const insertSplitExpense = `INSERT INTO split_expenses (id, payer, amount, participants, description, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

type InsertSplitExpenseParams struct {
	ID           string
	Payer        string
	Amount       float64
	Participants string
	Description  string
	CreatedAt    int64
}

func (q *Queries) InsertSplitExpense(ctx context.Context, arg InsertSplitExpenseParams) error {
	_, err := q.db.ExecContext(ctx, insertSplitExpense,
		arg.ID, arg.Payer, arg.Amount, arg.Participants, arg.Description, arg.CreatedAt)
	return err
}

const deleteSplitExpense = `DELETE FROM split_expenses WHERE id = ?`

func (q *Queries) DeleteSplitExpense(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSplitExpense, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markSplitExpenseSynced = `UPDATE split_expenses SET sync_status = 'synced', synced_at = ? WHERE id = ?`

func (q *Queries) MarkSplitExpenseSynced(ctx context.Context, id string, syncedAt int64) error {
	_, err := q.db.ExecContext(ctx, markSplitExpenseSynced, syncedAt, id)
	return err
}

const markSplitExpenseSyncError = `UPDATE split_expenses SET sync_status = 'error' WHERE id = ?`

func (q *Queries) MarkSplitExpenseSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markSplitExpenseSyncError, id)
	return err
}

const listDevNotes = `SELECT id, text, type, page, created_at FROM dev_notes ORDER BY created_at DESC, id DESC`

func (q *Queries) ListDevNotes(ctx context.Context) ([]DevNote, error) {
	rows, err := q.db.QueryContext(ctx, listDevNotes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DevNote
	for rows.Next() {
		var i DevNote
		if err := rows.Scan(&i.ID, &i.Text, &i.Type, &i.Page, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertDevNote = `INSERT INTO dev_notes (id, text, type, page, created_at) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertDevNote(ctx context.Context, arg DevNote) error {
	_, err := q.db.ExecContext(ctx, insertDevNote, arg.ID, arg.Text, arg.Type, arg.Page, arg.CreatedAt)
	return err
}

const deleteDevNote = `DELETE FROM dev_notes WHERE id = ?`

func (q *Queries) DeleteDevNote(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDevNote, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
