package db

import (
	"context"
	"errors"
	"fmt"

	"jobly/internal/domain"
	"jobly/internal/infra/sqlbuild"

	"github.com/jackc/pgx/v5"
)

type CompanyRepo struct {
	DB Querier
}

func NewCompanyRepo(db Querier) *CompanyRepo {
	return &CompanyRepo{DB: db}
}

// Create inserts company. An existing handle is reported as
// domain.ErrDuplicate without attempting the insert.
func (r *CompanyRepo) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	if r == nil || r.DB == nil {
		return domain.Company{}, errDBUnavailable
	}
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE handle = $1)`, company.Handle).Scan(&exists); err != nil {
		return domain.Company{}, err
	}
	if exists {
		return domain.Company{}, fmt.Errorf("%w: company %s", domain.ErrDuplicate, company.Handle)
	}
	query := `
INSERT INTO companies (handle, name, description, num_employees, logo_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + companyColumns
	row := r.DB.QueryRow(ctx, query,
		company.Handle,
		company.Name,
		company.Description,
		company.NumEmployees,
		company.LogoURL,
	)
	created, err := scanCompany(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Company{}, fmt.Errorf("%w: company %s", domain.ErrDuplicate, company.Handle)
		}
		return domain.Company{}, err
	}
	return created, nil
}

func (r *CompanyRepo) FindAll(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	if r == nil || r.DB == nil {
		return nil, errDBUnavailable
	}
	query, args := CompanySearch(filter)
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, company)
	}
	return out, rows.Err()
}

func (r *CompanyRepo) Get(ctx context.Context, handle string) (domain.CompanyDetail, error) {
	if r == nil || r.DB == nil {
		return domain.CompanyDetail{}, errDBUnavailable
	}
	row := r.DB.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE handle = $1`, handle)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CompanyDetail{}, fmt.Errorf("%w: company %s", domain.ErrNotFound, handle)
		}
		return domain.CompanyDetail{}, err
	}
	rows, err := r.DB.Query(ctx, `
SELECT id, title, salary, equity::text
FROM jobs
WHERE company_handle = $1
ORDER BY id`, handle)
	if err != nil {
		return domain.CompanyDetail{}, err
	}
	defer rows.Close()
	detail := domain.CompanyDetail{Company: company, Jobs: []domain.JobSummary{}}
	for rows.Next() {
		var job domain.JobSummary
		if err := rows.Scan(&job.ID, &job.Title, &job.Salary, &job.Equity); err != nil {
			return domain.CompanyDetail{}, err
		}
		detail.Jobs = append(detail.Jobs, job)
	}
	return detail, rows.Err()
}

// Update applies patch to the company and returns the stored row. The
// handle itself cannot be changed.
func (r *CompanyRepo) Update(ctx context.Context, handle string, patch domain.CompanyPatch) (domain.Company, error) {
	if r == nil || r.DB == nil {
		return domain.Company{}, errDBUnavailable
	}
	var update sqlbuild.Update
	if patch.Name != nil {
		update.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		update.Set("description", *patch.Description)
	}
	if patch.NumEmployees != nil {
		update.Set("numEmployees", *patch.NumEmployees)
	}
	if patch.LogoURL != nil {
		update.Set("logoUrl", *patch.LogoURL)
	}
	set, err := sqlbuild.PartialUpdate(update, companyFieldColumns)
	if err != nil {
		return domain.Company{}, err
	}
	query := fmt.Sprintf(`UPDATE companies SET %s WHERE handle = $%d RETURNING %s`,
		set.SetCols, set.Next(), companyColumns)
	row := r.DB.QueryRow(ctx, query, append(set.Values, handle)...)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, fmt.Errorf("%w: company %s", domain.ErrNotFound, handle)
		}
		if isUniqueViolation(err) {
			return domain.Company{}, fmt.Errorf("%w: company name", domain.ErrDuplicate)
		}
		return domain.Company{}, err
	}
	return company, nil
}

func (r *CompanyRepo) Remove(ctx context.Context, handle string) error {
	if r == nil || r.DB == nil {
		return errDBUnavailable
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM companies WHERE handle = $1`, handle)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: company %s", domain.ErrNotFound, handle)
	}
	return nil
}

func scanCompany(row pgx.Row) (domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL)
	return c, err
}
