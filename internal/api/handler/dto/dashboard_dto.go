package dto

import (
	"time"

	"kyc-onboarding/internal/domain/dashboard"
)

type BucketResponse struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type RiskDistributionResponse struct {
	Low     BucketResponse `json:"low"`
	Medium  BucketResponse `json:"medium"`
	High    BucketResponse `json:"high"`
	Unknown BucketResponse `json:"unknown"`
}

type RiskDetailResponse struct {
	CustomerID   int64     `json:"customer_id"`
	RiskScore    int       `json:"risk_score"`
	RiskLevel    string    `json:"risk_level"`
	CalculatedAt time.Time `json:"calculated_at"`
}

type TrendResponse struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

type DashboardStatsResponse struct {
	TotalApplications int                      `json:"totalApplications"`
	Pending           int                      `json:"pending"`
	Approved          int                      `json:"approved"`
	Rejected          int                      `json:"rejected"`
	Draft             int                      `json:"draft"`
	ApprovalRate      float64                  `json:"approvalRate"`
	RiskDistribution  RiskDistributionResponse `json:"riskDistribution"`
	RiskDetails       []RiskDetailResponse     `json:"riskDetails"`
	TrendsData        []TrendResponse          `json:"trendsData"`
	OverdueReviews    int                      `json:"overdueReviews"`
	From              time.Time                `json:"from"`
	To                time.Time                `json:"to"`
}

func bucket(b dashboard.Bucket) BucketResponse {
	return BucketResponse{Count: b.Count, Percent: b.Percent}
}

func NewDashboardStatsResponse(s *dashboard.Stats) DashboardStatsResponse {
	details := make([]RiskDetailResponse, 0, len(s.RiskDetails))
	for _, sc := range s.RiskDetails {
		details = append(details, RiskDetailResponse{
			CustomerID:   sc.CustomerID,
			RiskScore:    sc.Value,
			RiskLevel:    string(sc.Level()),
			CalculatedAt: sc.CalculatedAt,
		})
	}
	trends := make([]TrendResponse, 0, len(s.TrendsData))
	for _, t := range s.TrendsData {
		trends = append(trends, TrendResponse{Period: t.Period, Count: t.Count})
	}
	return DashboardStatsResponse{
		TotalApplications: s.TotalApplications,
		Pending:           s.Pending,
		Approved:          s.Approved,
		Rejected:          s.Rejected,
		Draft:             s.Draft,
		ApprovalRate:      s.ApprovalRate,
		RiskDistribution: RiskDistributionResponse{
			Low:     bucket(s.RiskDistribution.Low),
			Medium:  bucket(s.RiskDistribution.Medium),
			High:    bucket(s.RiskDistribution.High),
			Unknown: bucket(s.RiskDistribution.Unknown),
		},
		RiskDetails:    details,
		TrendsData:     trends,
		OverdueReviews: s.OverdueReviews,
		From:           s.From,
		To:             s.To,
	}
}
