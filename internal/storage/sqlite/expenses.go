package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// CreateExpense persists an expense and its splits in one write set.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = now
	}

	return s.RunAtomic(ctx, func(st storage.Store) error {
		q := st.(*SQLiteStore).q()

		_, err := q.ExecContext(ctx,
			`INSERT INTO expenses (id, group_id, description, amount, date, paid_by, split_type, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.GroupID, expense.Description, expense.Amount,
			expense.Date, expense.PaidBy, string(expense.SplitType), expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i := range expense.Splits {
			split := &expense.Splits[i]
			if split.ID == "" {
				split.ID = uuid.New().String()
			}
			split.ExpenseID = expense.ID

			_, err := q.ExecContext(ctx,
				"INSERT INTO splits (id, expense_id, user_id, amount, is_paid) VALUES (?, ?, ?, ?, ?)",
				split.ID, split.ExpenseID, split.UserID, split.Amount, boolToInt(split.IsPaid),
			)
			if err != nil {
				return fmt.Errorf("failed to insert split: %w", err)
			}
		}
		return nil
	})
}

// GetExpense retrieves one expense with nested splits and payments.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	err := s.q().QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, date, paid_by, split_type, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Date, &expense.PaidBy, &splitType, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitType = models.SplitType(splitType)

	splits, err := s.loadSplits(ctx, "s.expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits[expense.ID]
	return expense, nil
}

// ListExpenses retrieves a group's expenses with nested splits and
// payments, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT id, group_id, description, amount, date, paid_by, split_type, created_at
		 FROM expenses WHERE group_id = ? ORDER BY date DESC, created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var splitType string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount,
			&e.Date, &e.PaidBy, &splitType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.SplitType = models.SplitType(splitType)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splitsByExpense, err := s.loadSplits(ctx,
		"s.expense_id IN (SELECT id FROM expenses WHERE group_id = ?)", groupID)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Splits = splitsByExpense[expenses[i].ID]
	}
	return expenses, nil
}

// loadSplits fetches splits matching the given WHERE fragment, with
// their payments attached, grouped by expense ID.
func (s *SQLiteStore) loadSplits(ctx context.Context, where string, args ...any) (map[string][]models.Split, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT s.id, s.expense_id, s.user_id, s.amount, s.is_paid
		 FROM splits s WHERE `+where+` ORDER BY s.rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	defer rows.Close()

	byExpense := make(map[string][]models.Split)
	byID := make(map[string]*models.Split)
	var order []string
	for rows.Next() {
		var sp models.Split
		var isPaid int
		if err := rows.Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &sp.Amount, &isPaid); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		sp.IsPaid = isPaid != 0
		byExpense[sp.ExpenseID] = append(byExpense[sp.ExpenseID], sp)
		idx := len(byExpense[sp.ExpenseID]) - 1
		byID[sp.ID] = &byExpense[sp.ExpenseID][idx]
		order = append(order, sp.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	if len(order) == 0 {
		return byExpense, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(order)), ",")
	payArgs := make([]any, len(order))
	for i, id := range order {
		payArgs[i] = id
	}

	payRows, err := s.q().QueryContext(ctx,
		`SELECT id, split_id, paid_by, amount, method, notes, date
		 FROM payments WHERE split_id IN (`+placeholders+`) ORDER BY date, rowid`,
		payArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer payRows.Close()

	for payRows.Next() {
		p, err := scanPayment(payRows)
		if err != nil {
			return nil, err
		}
		if sp, ok := byID[p.SplitID]; ok {
			sp.Payments = append(sp.Payments, p)
		}
	}
	if err := payRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return byExpense, nil
}

// GetSplit retrieves one split with its payments.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	sp := &models.Split{}
	var isPaid int
	err := s.q().QueryRowContext(ctx,
		"SELECT id, expense_id, user_id, amount, is_paid FROM splits WHERE id = ?",
		splitID,
	).Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &sp.Amount, &isPaid)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split %s: %w", splitID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	sp.IsPaid = isPaid != 0

	rows, err := s.q().QueryContext(ctx,
		`SELECT id, split_id, paid_by, amount, method, notes, date
		 FROM payments WHERE split_id = ? ORDER BY date, rowid`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		sp.Payments = append(sp.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return sp, nil
}

// MarkSplitsPaid bulk-flips is_paid on the given split IDs.
func (s *SQLiteStore) MarkSplitsPaid(ctx context.Context, splitIDs []string) error {
	if len(splitIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(splitIDs)), ",")
	args := make([]any, len(splitIDs))
	for i, id := range splitIDs {
		args[i] = id
	}
	_, err := s.q().ExecContext(ctx,
		"UPDATE splits SET is_paid = 1 WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to mark splits paid: %w", err)
	}
	return nil
}

// CreatePayment persists a payment against a split.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.Date == 0 {
		payment.Date = time.Now().Unix()
	}

	var notes any
	if payment.Notes != "" {
		notes = payment.Notes
	}

	_, err := s.q().ExecContext(ctx,
		`INSERT INTO payments (id, split_id, paid_by, amount, method, notes, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.SplitID, payment.PaidBy, payment.Amount,
		payment.Method, notes, payment.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// ListPayments retrieves every payment recorded against the group's splits.
func (s *SQLiteStore) ListPayments(ctx context.Context, groupID string) ([]models.Payment, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT p.id, p.split_id, p.paid_by, p.amount, p.method, p.notes, p.date
		 FROM payments p
		 JOIN splits s ON s.id = p.split_id
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ?
		 ORDER BY p.date, p.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

func scanPayment(rows *sql.Rows) (models.Payment, error) {
	var p models.Payment
	var notes sql.NullString
	if err := rows.Scan(&p.ID, &p.SplitID, &p.PaidBy, &p.Amount, &p.Method, &notes, &p.Date); err != nil {
		return p, fmt.Errorf("failed to scan payment: %w", err)
	}
	if notes.Valid {
		p.Notes = notes.String
	}
	return p, nil
}
