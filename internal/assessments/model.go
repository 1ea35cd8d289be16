package assessments

import (
	"time"

	"credit-backend/internal/scoring"
)

// Request is the body of the assessment and report endpoints.
type Request struct {
	AadhaarNumber   string `json:"aadhaarNumber"`
	PanNumber       string `json:"panNumber"`
	ApplicationName string `json:"applicationName,omitempty"`
	BorrowerName    string `json:"borrowerName,omitempty"`
	Variant         string `json:"variant,omitempty"`
	// Scores, when present, are used instead of querying the bureau source.
	// Keys are bureau names; values must lie in the variant's input range.
	Scores       map[string]int `json:"scores,omitempty"`
	WithDecision bool           `json:"withDecision,omitempty"`
}

// UnifiedAssessment is rebuilt on every lookup and never stored on its own.
type UnifiedAssessment struct {
	UnifiedScore       int                        `json:"unifiedScore"`
	RiskLevel          scoring.RiskLevel          `json:"riskLevel"`
	RiskLabel          string                     `json:"riskLabel"`
	RiskColor          string                     `json:"riskColor"`
	ConfidenceScore    int                        `json:"confidenceScore"`
	BureauScores       []scoring.BureauScore      `json:"bureauScores"`
	NormalizedScores   map[scoring.Bureau]float64 `json:"normalizedScores"`
	StandardizedScores map[scoring.Bureau]float64 `json:"standardizedScores,omitempty"`
	Variant            string                     `json:"variant"`
	ScoreRange         scoring.Range              `json:"scoreRange"`
	RiskProfile        string                     `json:"riskProfile"`
	ApplicationName    string                     `json:"applicationName,omitempty"`
	BorrowerName       string                     `json:"borrowerName,omitempty"`
	GeneratedAt        time.Time                  `json:"generatedAt"`
}

// Decision is the model's approve/reject recommendation.
type Decision struct {
	CreditWorthiness string `json:"creditWorthiness"`
	Reason           string `json:"reason"`
}

const ReportTitle = "Unified Credit Score Report"

// CreditReport is the document saved to the object store.
type CreditReport struct {
	Title         string        `json:"title"`
	GeneratedDate time.Time     `json:"generatedDate"`
	Data          CreditSummary `json:"data"`
	Decision      *Decision     `json:"decision,omitempty"`
	StorageKey    string        `json:"storageKey,omitempty"`
}

type CreditSummary struct {
	PersonalInfo      PersonalInfo      `json:"personalInfo"`
	Scores            UnifiedAssessment `json:"scores"`
	CreditUtilization Utilization       `json:"creditUtilization"`
	RepaymentHistory  Repayment         `json:"repaymentHistory"`
	CreditMix         Mix               `json:"creditMix"`
	HardInquiries     Inquiries         `json:"hardInquiries"`
	NegativeRemarks   Remarks           `json:"negativeRemarks"`
	RiskProfile       string            `json:"riskProfile"`
}

// PersonalInfo carries masked identifiers only.
type PersonalInfo struct {
	Name          string `json:"name"`
	AadhaarNumber string `json:"aadhaarNumber"`
	PanNumber     string `json:"panNumber"`
}

type Utilization struct {
	Ratio      float64 `json:"ratio"`
	Percentage int     `json:"percentage"`
	Impact     string  `json:"impact"`
}

type Repayment struct {
	TotalPayments  int    `json:"totalPayments"`
	TimelyPayments int    `json:"timelyPayments"`
	LatePayments   int    `json:"latePayments"`
	Impact         string `json:"impact"`
}

type Mix struct {
	Types  []string `json:"types"`
	Count  int      `json:"count"`
	Impact string   `json:"impact"`
}

type Inquiries struct {
	Count  int    `json:"count"`
	Impact string `json:"impact"`
}

type Remarks struct {
	Remarks string `json:"remarks"`
	Impact  string `json:"impact"`
}
