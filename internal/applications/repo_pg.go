package applications

import (
	"context"
	"database/sql"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO application_details (
  id, user_id, application_name, borrowers_name, description,
  aadhar_number, pan_number, credit_assessment_report, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.UserID,
		app.ApplicationName,
		app.BorrowersName,
		nullableString(app.Description),
		app.AadharNumber,
		app.PanNumber,
		nullableString(app.CreditAssessmentReport),
		app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	const query = `
SELECT id, user_id, application_name, borrowers_name, description,
       aadhar_number, pan_number, credit_assessment_report, created_at
FROM application_details
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := make([]Application, 0)
	for rows.Next() {
		var app Application
		var description sql.NullString
		var report sql.NullString
		if err := rows.Scan(
			&app.ID,
			&app.UserID,
			&app.ApplicationName,
			&app.BorrowersName,
			&description,
			&app.AadharNumber,
			&app.PanNumber,
			&report,
			&app.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		if description.Valid {
			app.Description = description.String
		}
		if report.Valid {
			app.CreditAssessmentReport = report.String
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (r *PGRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
