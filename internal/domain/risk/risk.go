package risk

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Level string

const (
	LevelLow     Level = "LOW"
	LevelMedium  Level = "MEDIUM"
	LevelHigh    Level = "HIGH"
	LevelUnknown Level = "UNKNOWN"
)

const (
	mediumThreshold = 21
	highThreshold   = 41
)

var (
	income30k  = decimal.NewFromInt(30000)
	income60k  = decimal.NewFromInt(60000)
	income100k = decimal.NewFromInt(100000)

	deposit1k  = decimal.NewFromInt(1000)
	deposit10k = decimal.NewFromInt(10000)
	deposit50k = decimal.NewFromInt(50000)
)

// Input holds the customer attributes the score depends on.
// A nil DateOfBirth scores as an age below 18.
type Input struct {
	DateOfBirth      *time.Time
	AnnualIncome     decimal.Decimal
	EmploymentStatus string
	AccountType      string
	InitialDeposit   decimal.Decimal
}

type Factors struct {
	Age         int `json:"age_factor"`
	Income      int `json:"income_factor"`
	Employment  int `json:"employment_factor"`
	AccountType int `json:"account_type_factor"`
	Deposit     int `json:"deposit_factor"`
}

func (f Factors) Total() int {
	return f.Age + f.Income + f.Employment + f.AccountType + f.Deposit
}

type Result struct {
	Score   int
	Level   Level
	Factors Factors
}

func Calculate(in Input, now time.Time) Result {
	f := Factors{
		Age:         ageFactor(in.DateOfBirth, now),
		Income:      incomeFactor(in.AnnualIncome),
		Employment:  employmentFactor(in.EmploymentStatus),
		AccountType: accountTypeFactor(in.AccountType),
		Deposit:     depositFactor(in.InitialDeposit),
	}
	score := f.Total()
	return Result{Score: score, Level: LevelFor(score), Factors: f}
}

// LevelFor is the only place a level is derived from a score.
func LevelFor(score int) Level {
	switch {
	case score >= highThreshold:
		return LevelHigh
	case score >= mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ScoreRange returns the inclusive score bounds for a level. max < 0 means unbounded.
func ScoreRange(l Level) (min, max int, ok bool) {
	switch l {
	case LevelLow:
		return 0, mediumThreshold - 1, true
	case LevelMedium:
		return mediumThreshold, highThreshold - 1, true
	case LevelHigh:
		return highThreshold, -1, true
	default:
		return 0, 0, false
	}
}

func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return l, true
	default:
		return "", false
	}
}

// ParseAmount yields zero for empty or non-numeric text.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AgeAt returns completed years between dob and now.
func AgeAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func ageFactor(dob *time.Time, now time.Time) int {
	if dob == nil {
		return 0
	}
	age := AgeAt(*dob, now)
	switch {
	case age < 18:
		return 0
	case age <= 25:
		return 10
	case age <= 40:
		return 5
	case age <= 60:
		return 3
	default:
		return 8
	}
}

func incomeFactor(income decimal.Decimal) int {
	switch {
	case income.LessThan(income30k):
		return 10
	case income.LessThan(income60k):
		return 5
	case income.LessThan(income100k):
		return 3
	default:
		return 1
	}
}

func employmentFactor(status string) int {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "UNEMPLOYED":
		return 10
	case "PART_TIME":
		return 7
	case "SELF_EMPLOYED":
		return 5
	case "FULL_TIME":
		return 2
	default:
		return 5
	}
}

func accountTypeFactor(accountType string) int {
	switch strings.ToUpper(strings.TrimSpace(accountType)) {
	case "INVESTMENT":
		return 1
	case "BUSINESS":
		return 3
	case "SAVINGS":
		return 5
	case "CHECKING":
		return 7
	default:
		return 5
	}
}

func depositFactor(deposit decimal.Decimal) int {
	switch {
	case deposit.LessThan(deposit1k):
		return 5
	case deposit.LessThan(deposit10k):
		return 2
	case deposit.LessThan(deposit50k):
		return 1
	default:
		return 0
	}
}
