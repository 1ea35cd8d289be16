package applications

import "time"

// Application is a stored loan application. JSON names follow the
// original ApplicationDetails document.
type Application struct {
	ID                     string    `json:"_id"`
	UserID                 string    `json:"userId"`
	ApplicationName        string    `json:"applicationName"`
	BorrowersName          string    `json:"borrowersName"`
	Description            string    `json:"description,omitempty"`
	AadharNumber           string    `json:"aadharNumber"`
	PanNumber              string    `json:"panNumber"`
	CreditAssessmentReport string    `json:"creditAssessmentReport,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
}

// CreateInput is the body of POST /api/cred/application.
type CreateInput struct {
	UserID                 string `json:"userId"`
	ApplicationName        string `json:"applicationName"`
	BorrowersName          string `json:"borrowersName"`
	Description            string `json:"description"`
	AadharNumber           string `json:"aadharNumber"`
	PanNumber              string `json:"panNumber"`
	CreditAssessmentReport string `json:"creditAssessmentReport"`
	// GenerateReport fills CreditAssessmentReport from a fresh lookup.
	GenerateReport bool   `json:"generateReport"`
	Variant        string `json:"variant"`
}
