package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/risk"
	"kyc-onboarding/internal/pkg/apperrors"
)

const customerColumns = `c.id, c.user_id, c.email, c.full_name, c.date_of_birth, c.address, c.phone,
        c.annual_income, c.employment_status, c.account_type, c.initial_deposit, c.id_number,
        c.status, c.created_at, c.updated_at, c.submitted_at, c.decision_date,
        c.rejection_reason, c.approved_by, c.rejected_by`

type rowScanner interface {
	Scan(dest ...any) error
}

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func scanCustomer(row rowScanner, cust *customer.Customer, extra ...any) error {
	dest := []any{
		&cust.ID, &cust.UserID, &cust.Email, &cust.FullName, &cust.DateOfBirth, &cust.Address, &cust.Phone,
		&cust.AnnualIncome, &cust.EmploymentStatus, &cust.AccountType, &cust.InitialDeposit, &cust.IDNumber,
		&cust.Status, &cust.CreatedAt, &cust.UpdatedAt, &cust.SubmittedAt, &cust.DecisionDate,
		&cust.RejectionReason, &cust.ApprovedBy, &cust.RejectedBy,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("userID", cust.UserID))

	query := `
        INSERT INTO customers (user_id, email, full_name, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query, cust.UserID, cust.Email, cust.FullName, cust.Status).
		Scan(&cust.ID, &cust.CreatedAt, &cust.UpdatedAt)
	observe("CreateCustomer", start, err)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.String("userID", cust.UserID))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil || cust.ID == 0 {
		return fmt.Errorf("%w: customer must be persisted before saving", apperrors.ErrInvalidArgument)
	}
	logger := r.logger.With(slog.Int64("customerID", cust.ID))
	logger.InfoContext(ctx, "Attempting to update customer")

	query := `
        UPDATE customers
        SET full_name = $1,
            date_of_birth = $2,
            address = $3,
            phone = $4,
            annual_income = $5,
            employment_status = $6,
            account_type = $7,
            initial_deposit = $8,
            id_number = $9,
            status = $10,
            submitted_at = $11,
            decision_date = $12,
            rejection_reason = $13,
            approved_by = $14,
            rejected_by = $15,
            updated_at = NOW()
        WHERE id = $16
        RETURNING updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.FullName, cust.DateOfBirth, cust.Address, cust.Phone,
		cust.AnnualIncome, cust.EmploymentStatus, cust.AccountType, cust.InitialDeposit, cust.IDNumber,
		cust.Status, cust.SubmittedAt, cust.DecisionDate, cust.RejectionReason, cust.ApprovedBy, cust.RejectedBy,
		cust.ID,
	).Scan(&cust.UpdatedAt)
	observe("SaveCustomer", start, err)
	if err != nil {
		translatedErr := translateDBError(err, logger)
		if errors.Is(translatedErr, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
			return apperrors.ErrNotFound
		}
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return translatedErr
		}
		logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = $1`
	return r.findOne(ctx, "FindCustomerByID", query, id)
}

func (r *CustomerRepository) FindByUserID(ctx context.Context, userID string) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.user_id = $1`
	return r.findOne(ctx, "FindCustomerByUserID", query, userID)
}

func (r *CustomerRepository) findOne(ctx context.Context, queryName, query string, arg any) (*customer.Customer, error) {
	start := time.Now()
	var cust customer.Customer
	err := scanCustomer(r.db.QueryRow(ctx, query, arg), &cust)
	observe(queryName, start, err)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.WarnContext(ctx, "Customer not found", slog.String("query", queryName))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer", slog.String("query", queryName), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer: %w", apperrors.ErrDatabase, err)
	}
	return &cust, nil
}

// List filters, sorts and pages customers joined with their current risk score.
func (r *CustomerRepository) List(ctx context.Context, f customer.ListFilter) ([]*customer.ListItem, int, error) {
	f.Normalize()
	where, args := buildCustomerFilter(f)

	countQuery := `SELECT COUNT(*) FROM customers c LEFT JOIN risk_scores rs ON rs.customer_id = c.id` + where
	start := time.Now()
	var total int
	err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total)
	observe("CountCustomers", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count customers: %w", apperrors.ErrDatabase, err)
	}

	orderColumn := "c.created_at"
	if f.SortBy == customer.SortByName {
		orderColumn = "c.full_name"
	}
	direction := "DESC"
	if f.Ascending {
		direction = "ASC"
	}

	listArgs := append(append([]any{}, args...), f.Limit, f.Offset())
	listQuery := fmt.Sprintf(`
        SELECT %s,
               rs.score, rs.age_factor, rs.income_factor, rs.employment_factor,
               rs.account_type_factor, rs.deposit_factor, rs.calculated_at
        FROM customers c
        LEFT JOIN risk_scores rs ON rs.customer_id = c.id%s
        ORDER BY %s %s, c.id %s
        LIMIT $%d OFFSET $%d`,
		customerColumns, where, orderColumn, direction, direction, len(args)+1, len(args)+2)

	start = time.Now()
	rows, err := r.db.Query(ctx, listQuery, listArgs...)
	observe("ListCustomers", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	items := make([]*customer.ListItem, 0, f.Limit)
	for rows.Next() {
		var (
			cust       customer.Customer
			score      *int
			factors    [5]*int
			calculated *time.Time
		)
		err := scanCustomer(rows, &cust,
			&score, &factors[0], &factors[1], &factors[2], &factors[3], &factors[4], &calculated)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, 0, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		item := &customer.ListItem{Customer: &cust}
		if score != nil && calculated != nil {
			item.Risk = &risk.Score{
				CustomerID: cust.ID,
				Value:      *score,
				Factors: risk.Factors{
					Age:         deref(factors[0]),
					Income:      deref(factors[1]),
					Employment:  deref(factors[2]),
					AccountType: deref(factors[3]),
					Deposit:     deref(factors[4]),
				},
				CalculatedAt: *calculated,
			}
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished listing customers", slog.Int("count", len(items)), slog.Int("total", total))
	return items, total, nil
}

// buildCustomerFilter renders the WHERE clause with positional arguments.
func buildCustomerFilter(f customer.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, vals ...any) {
		for _, v := range vals {
			args = append(args, v)
			cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(args)), 1)
		}
		conds = append(conds, cond)
	}

	if f.Status != nil {
		add("c.status = ?", string(*f.Status))
	}
	if f.RiskLevel != nil {
		if lo, hi, ok := risk.ScoreRange(*f.RiskLevel); ok {
			if hi < 0 {
				add("rs.score >= ?", lo)
			} else {
				add("rs.score BETWEEN ? AND ?", lo, hi)
			}
		} else {
			add("rs.customer_id IS NULL")
		}
	}
	if f.From != nil {
		add("c.created_at >= ?", *f.From)
	}
	if f.To != nil {
		add("c.created_at <= ?", *f.To)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("(c.full_name ILIKE ? OR c.email ILIKE ?)", likePattern(s), likePattern(s))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "\n        WHERE " + strings.Join(conds, " AND "), args
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
