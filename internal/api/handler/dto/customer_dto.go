package dto

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/risk"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type CustomerResponse struct {
	ID               int64      `json:"id"`
	UserID           string     `json:"userId"`
	Email            string     `json:"email"`
	FullName         string     `json:"fullName"`
	DateOfBirth      *string    `json:"dateOfBirth,omitempty"`
	Address          string     `json:"address,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	AnnualIncome     *string    `json:"annualIncome,omitempty"`
	EmploymentStatus string     `json:"employmentStatus,omitempty"`
	AccountType      string     `json:"accountType,omitempty"`
	InitialDeposit   *string    `json:"initialDeposit,omitempty"`
	IDNumber         string     `json:"idNumber,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	SubmittedAt      *time.Time `json:"submittedAt,omitempty"`
	DecisionDate     *time.Time `json:"decisionDate,omitempty"`
	RejectionReason  *string    `json:"rejectionReason,omitempty"`
	ApprovedBy       *string    `json:"approvedBy,omitempty"`
	RejectedBy       *string    `json:"rejectedBy,omitempty"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:               cust.ID,
		UserID:           cust.UserID,
		Email:            cust.Email,
		FullName:         cust.FullName,
		DateOfBirth:      formatDate(cust.DateOfBirth),
		Address:          cust.Address,
		Phone:            cust.Phone,
		AnnualIncome:     formatAmount(cust.AnnualIncome),
		EmploymentStatus: cust.EmploymentStatus,
		AccountType:      cust.AccountType,
		InitialDeposit:   formatAmount(cust.InitialDeposit),
		IDNumber:         cust.IDNumber,
		Status:           string(cust.Status),
		CreatedAt:        cust.CreatedAt,
		UpdatedAt:        cust.UpdatedAt,
		SubmittedAt:      cust.SubmittedAt,
		DecisionDate:     cust.DecisionDate,
		RejectionReason:  cust.RejectionReason,
		ApprovedBy:       cust.ApprovedBy,
		RejectedBy:       cust.RejectedBy,
	}
}

func formatAmount(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}

// Amount accepts a JSON number or numeric string. Anything that does not parse
// as a number reads as zero, the same way the risk factors treat it.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	a.Decimal = risk.ParseAmount(text)
	return nil
}

func (a *Amount) value() *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Decimal
	return &d
}

// UpdateCustomerRequest is a partial update; omitted fields keep their value.
type UpdateCustomerRequest struct {
	FullName         *string `json:"fullName" validate:"omitempty,min=1,max=200"`
	DateOfBirth      *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address          *string `json:"address" validate:"omitempty,max=500"`
	Phone            *string `json:"phone" validate:"omitempty,max=30"`
	AnnualIncome     *Amount `json:"annualIncome" swaggertype:"number"`
	EmploymentStatus *string `json:"employmentStatus" validate:"omitempty,max=50"`
	AccountType      *string `json:"accountType" validate:"omitempty,max=50"`
	InitialDeposit   *Amount `json:"initialDeposit" swaggertype:"number"`
	IDNumber         *string `json:"idNumber" validate:"omitempty,max=50"`
	CurrentPassword  string  `json:"currentPassword,omitempty"`
	NewPassword      string  `json:"newPassword,omitempty" validate:"omitempty,min=8,max=72"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.AnnualIncome != nil && r.AnnualIncome.IsNegative() {
		return apperrors.NewValidationError("annualIncome", "annualIncome must not be negative")
	}
	if r.InitialDeposit != nil && r.InitialDeposit.IsNegative() {
		return apperrors.NewValidationError("initialDeposit", "initialDeposit must not be negative")
	}
	return nil
}

func (r *UpdateCustomerRequest) ToInput() (customer.UpdateInput, error) {
	dob, err := ParseDate("dateOfBirth", deref(r.DateOfBirth))
	if err != nil {
		return customer.UpdateInput{}, err
	}
	if dob != nil && dob.After(time.Now()) {
		return customer.UpdateInput{}, apperrors.NewValidationError("dateOfBirth", "dateOfBirth must not be in the future")
	}
	return customer.UpdateInput{
		Profile: customer.Profile{
			FullName:         r.FullName,
			DateOfBirth:      dob,
			Address:          r.Address,
			Phone:            r.Phone,
			AnnualIncome:     r.AnnualIncome.value(),
			EmploymentStatus: r.EmploymentStatus,
			AccountType:      r.AccountType,
			InitialDeposit:   r.InitialDeposit.value(),
			IDNumber:         r.IDNumber,
		},
		CurrentPassword: r.CurrentPassword,
		NewPassword:     r.NewPassword,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type RejectCustomerRequest struct {
	Reason string `json:"reason" validate:"required,min=10,max=1000"`
}

func (r *RejectCustomerRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return validateStruct(r)
}

type ApprovalResponse struct {
	Customer         CustomerResponse  `json:"customer"`
	ReviewScheduling *BackfillResponse `json:"reviewScheduling,omitempty"`
}

func NewApprovalResponse(res *customer.ApprovalResult) ApprovalResponse {
	resp := ApprovalResponse{Customer: NewCustomerResponse(res.Customer)}
	if res.Reviews != nil {
		b := NewBackfillResponse(res.Reviews)
		resp.ReviewScheduling = &b
	}
	return resp
}

type RiskScoreResponse struct {
	CustomerID        int64     `json:"customer_id"`
	Score             int       `json:"score"`
	RiskLevel         string    `json:"risk_level"`
	AgeFactor         int       `json:"age_factor"`
	IncomeFactor      int       `json:"income_factor"`
	EmploymentFactor  int       `json:"employment_factor"`
	AccountTypeFactor int       `json:"account_type_factor"`
	DepositFactor     int       `json:"deposit_factor"`
	CalculatedAt      time.Time `json:"calculated_at"`
}

func NewRiskScoreResponse(s *risk.Score) RiskScoreResponse {
	return RiskScoreResponse{
		CustomerID:        s.CustomerID,
		Score:             s.Value,
		RiskLevel:         string(s.Level()),
		AgeFactor:         s.Factors.Age,
		IncomeFactor:      s.Factors.Income,
		EmploymentFactor:  s.Factors.Employment,
		AccountTypeFactor: s.Factors.AccountType,
		DepositFactor:     s.Factors.Deposit,
		CalculatedAt:      s.CalculatedAt,
	}
}

type CustomerListItem struct {
	CustomerResponse
	RiskScore *int   `json:"riskScore"`
	RiskLevel string `json:"riskLevel"`
}

type CustomerListResponse struct {
	Items      []CustomerListItem `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

func NewCustomerListResponse(res *customer.ListResult) CustomerListResponse {
	items := make([]CustomerListItem, 0, len(res.Items))
	for _, it := range res.Items {
		item := CustomerListItem{
			CustomerResponse: NewCustomerResponse(it.Customer),
			RiskLevel:        string(it.Risk.Level()),
		}
		if it.Risk != nil {
			v := it.Risk.Value
			item.RiskScore = &v
		}
		items = append(items, item)
	}
	totalPages := 0
	if res.Limit > 0 {
		totalPages = (res.Total + res.Limit - 1) / res.Limit
	}
	return CustomerListResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: totalPages,
	}
}

// ParseListFilter reads paging, filtering and sorting from the query string.
func ParseListFilter(q url.Values) (customer.ListFilter, error) {
	var f customer.ListFilter
	var err error

	if f.Page, err = parsePositiveInt(q, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = parsePositiveInt(q, "limit"); err != nil {
		return f, err
	}
	if v := q.Get("status"); v != "" {
		st, ok := customer.ParseStatus(v)
		if !ok {
			return f, apperrors.NewValidationError("status", "status must be one of DRAFT, PENDING, APPROVED, REJECTED")
		}
		f.Status = &st
	}
	if v := q.Get("riskLevel"); v != "" {
		lvl, ok := risk.ParseLevel(v)
		if !ok && !strings.EqualFold(strings.TrimSpace(v), string(risk.LevelUnknown)) {
			return f, apperrors.NewValidationError("riskLevel", "riskLevel must be one of LOW, MEDIUM, HIGH, UNKNOWN")
		}
		if !ok {
			lvl = risk.LevelUnknown
		}
		f.RiskLevel = &lvl
	}
	if f.From, err = parseTimeParam(q, "from"); err != nil {
		return f, err
	}
	if f.To, err = parseTimeParam(q, "to"); err != nil {
		return f, err
	}
	f.Search = strings.TrimSpace(q.Get("search"))

	switch strings.ToLower(q.Get("sortBy")) {
	case "", "created_at", "createdat":
		f.SortBy = customer.SortByCreatedAt
	case "name", "full_name", "fullname":
		f.SortBy = customer.SortByName
	default:
		return f, apperrors.NewValidationError("sortBy", "sortBy must be one of created_at, name")
	}
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
	case "asc":
		f.Ascending = true
	default:
		return f, apperrors.NewValidationError("order", "order must be asc or desc")
	}
	return f, nil
}

func parsePositiveInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, apperrors.NewValidationError(key, key+" must be a positive integer")
	}
	return n, nil
}

// parseTimeParam accepts a date or an RFC 3339 timestamp.
func parseTimeParam(q url.Values, key string) (*time.Time, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	return ParseDate(key, v)
}
