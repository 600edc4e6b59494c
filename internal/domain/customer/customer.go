package customer

import (
	"strings"
	"time"

	"kyc-onboarding/internal/domain/risk"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

const MinRejectionReasonLength = 10

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

type Customer struct {
	ID               int64
	UserID           string
	Email            string
	FullName         string
	DateOfBirth      *time.Time
	Address          string
	Phone            string
	AnnualIncome     decimal.NullDecimal
	EmploymentStatus string
	AccountType      string
	InitialDeposit   decimal.NullDecimal
	IDNumber         string
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
	SubmittedAt      *time.Time
	DecisionDate     *time.Time
	RejectionReason  *string
	ApprovedBy       *string
	RejectedBy       *string
}

func NewCustomer(userID, email, fullName string) *Customer {
	now := time.Now()
	return &Customer{
		UserID:    userID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		FullName:  strings.TrimSpace(fullName),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Customer) OwnedBy(userID string) bool {
	return userID != "" && c.UserID == userID
}

func (c *Customer) Submit(now time.Time) {
	c.Status = StatusPending
	c.SubmittedAt = &now
	c.UpdatedAt = now
}

func (c *Customer) Approve(employeeID string, now time.Time) {
	c.Status = StatusApproved
	c.DecisionDate = &now
	c.ApprovedBy = &employeeID
	c.RejectedBy = nil
	c.RejectionReason = nil
	c.UpdatedAt = now
}

func (c *Customer) Reject(employeeID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < MinRejectionReasonLength {
		return apperrors.NewValidationError("reason", "rejection reason must be at least 10 characters")
	}
	c.Status = StatusRejected
	c.DecisionDate = &now
	c.RejectionReason = &reason
	c.RejectedBy = &employeeID
	c.ApprovedBy = nil
	c.UpdatedAt = now
	return nil
}

// Profile carries the editable attributes; nil fields are left unchanged.
type Profile struct {
	FullName         *string
	DateOfBirth      *time.Time
	Address          *string
	Phone            *string
	AnnualIncome     *decimal.Decimal
	EmploymentStatus *string
	AccountType      *string
	InitialDeposit   *decimal.Decimal
	IDNumber         *string
}

func (c *Customer) ApplyProfile(p Profile, now time.Time) bool {
	changed := false
	setString := func(dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if *dst != v {
			*dst = v
			changed = true
		}
	}
	setString(&c.FullName, p.FullName)
	setString(&c.Address, p.Address)
	setString(&c.Phone, p.Phone)
	setString(&c.IDNumber, p.IDNumber)
	if p.EmploymentStatus != nil {
		v := strings.ToUpper(strings.TrimSpace(*p.EmploymentStatus))
		p.EmploymentStatus = &v
	}
	setString(&c.EmploymentStatus, p.EmploymentStatus)
	if p.AccountType != nil {
		v := strings.ToUpper(strings.TrimSpace(*p.AccountType))
		p.AccountType = &v
	}
	setString(&c.AccountType, p.AccountType)

	if p.DateOfBirth != nil && (c.DateOfBirth == nil || !c.DateOfBirth.Equal(*p.DateOfBirth)) {
		dob := *p.DateOfBirth
		c.DateOfBirth = &dob
		changed = true
	}
	if p.AnnualIncome != nil && (!c.AnnualIncome.Valid || !c.AnnualIncome.Decimal.Equal(*p.AnnualIncome)) {
		c.AnnualIncome = decimal.NewNullDecimal(*p.AnnualIncome)
		changed = true
	}
	if p.InitialDeposit != nil && (!c.InitialDeposit.Valid || !c.InitialDeposit.Decimal.Equal(*p.InitialDeposit)) {
		c.InitialDeposit = decimal.NewNullDecimal(*p.InitialDeposit)
		changed = true
	}
	if changed {
		c.UpdatedAt = now
	}
	return changed
}

// RiskInput treats missing amounts as zero.
func (c *Customer) RiskInput() risk.Input {
	in := risk.Input{
		DateOfBirth:      c.DateOfBirth,
		EmploymentStatus: c.EmploymentStatus,
		AccountType:      c.AccountType,
	}
	if c.AnnualIncome.Valid {
		in.AnnualIncome = c.AnnualIncome.Decimal
	}
	if c.InitialDeposit.Valid {
		in.InitialDeposit = c.InitialDeposit.Decimal
	}
	return in
}
