package db

import (
	"context"
	"errors"
	"fmt"

	"jobly/internal/domain"
	"jobly/internal/infra/sqlbuild"

	"github.com/jackc/pgx/v5"
)

type JobRepo struct {
	DB Querier
}

func NewJobRepo(db Querier) *JobRepo {
	return &JobRepo{DB: db}
}

// Create inserts job for an existing company. Equity travels as numeric
// text so values like "0.05" keep their precision.
func (r *JobRepo) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	if r == nil || r.DB == nil {
		return domain.Job{}, errDBUnavailable
	}
	query := `
INSERT INTO jobs (title, salary, equity, company_handle)
VALUES ($1, $2, $3, $4)
RETURNING ` + jobColumns
	row := r.DB.QueryRow(ctx, query, job.Title, job.Salary, job.Equity, job.CompanyHandle)
	created, err := scanJob(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Job{}, fmt.Errorf("%w: no company %s", domain.ErrBadRequest, job.CompanyHandle)
		}
		return domain.Job{}, err
	}
	return created, nil
}

func (r *JobRepo) FindAll(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if r == nil || r.DB == nil {
		return nil, errDBUnavailable
	}
	query, args := JobSearch(filter)
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Job{}
	for rows.Next() {
		var j domain.Job
		var companyName *string
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &companyName); err != nil {
			return nil, err
		}
		if companyName != nil {
			j.CompanyName = *companyName
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *JobRepo) Get(ctx context.Context, id int) (domain.JobDetail, error) {
	if r == nil || r.DB == nil {
		return domain.JobDetail{}, errDBUnavailable
	}
	job, err := scanJob(r.DB.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JobDetail{}, fmt.Errorf("%w: job %d", domain.ErrNotFound, id)
		}
		return domain.JobDetail{}, err
	}
	row := r.DB.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE handle = $1`, job.CompanyHandle)
	company, err := scanCompany(row)
	if err != nil {
		return domain.JobDetail{}, err
	}
	return domain.JobDetail{
		JobSummary: domain.JobSummary{ID: job.ID, Title: job.Title, Salary: job.Salary, Equity: job.Equity},
		Company:    company,
	}, nil
}

// Update changes title, salary, or equity. A job never moves between
// companies.
func (r *JobRepo) Update(ctx context.Context, id int, patch domain.JobPatch) (domain.Job, error) {
	if r == nil || r.DB == nil {
		return domain.Job{}, errDBUnavailable
	}
	var update sqlbuild.Update
	if patch.Title != nil {
		update.Set("title", *patch.Title)
	}
	if patch.Salary != nil {
		update.Set("salary", *patch.Salary)
	}
	if patch.Equity != nil {
		update.Set("equity", *patch.Equity)
	}
	set, err := sqlbuild.PartialUpdate(update, nil)
	if err != nil {
		return domain.Job{}, err
	}
	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d RETURNING %s`,
		set.SetCols, set.Next(), jobColumns)
	job, err := scanJob(r.DB.QueryRow(ctx, query, append(set.Values, id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("%w: job %d", domain.ErrNotFound, id)
		}
		return domain.Job{}, err
	}
	return job, nil
}

func (r *JobRepo) Remove(ctx context.Context, id int) error {
	if r == nil || r.DB == nil {
		return errDBUnavailable
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %d", domain.ErrNotFound, id)
	}
	return nil
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var j domain.Job
	err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	return j, err
}
