package db

import (
	"jobly/internal/domain"
	"jobly/internal/infra/sqlbuild"
)

const (
	companyColumns = "handle, name, description, num_employees, logo_url"
	jobColumns     = "id, title, salary, equity::text, company_handle"
	userColumns    = "username, first_name, last_name, email, is_admin"
)

// Logical field names that differ from their column names.
var (
	companyFieldColumns = map[string]string{
		"numEmployees": "num_employees",
		"logoUrl":      "logo_url",
	}
	userFieldColumns = map[string]string{
		"firstName": "first_name",
		"lastName":  "last_name",
		"isAdmin":   "is_admin",
	}
)

// CompanySearch builds the company listing query. Predicates are applied
// in the order name, minimum size, maximum size. A minimum above the
// maximum yields an empty result rather than an error.
func CompanySearch(filter domain.CompanyFilter) (string, []any) {
	b := sqlbuild.Select("SELECT " + companyColumns + " FROM companies")
	if filter.NameLike != nil {
		b.Where("name ILIKE $%d", containsPattern(*filter.NameLike))
	}
	if filter.MinEmployees != nil {
		b.Where("num_employees >= $%d", *filter.MinEmployees)
	}
	if filter.MaxEmployees != nil {
		b.Where("num_employees <= $%d", *filter.MaxEmployees)
	}
	return b.Build("name")
}

// JobSearch builds the job listing query. HasEquity=false adds no
// predicate.
func JobSearch(filter domain.JobFilter) (string, []any) {
	b := sqlbuild.Select(`SELECT j.id, j.title, j.salary, j.equity::text, j.company_handle, c.name
FROM jobs j
LEFT JOIN companies c ON c.handle = j.company_handle`)
	if filter.Title != nil {
		b.Where("j.title ILIKE $%d", containsPattern(*filter.Title))
	}
	if filter.MinSalary != nil {
		b.Where("j.salary >= $%d", *filter.MinSalary)
	}
	if filter.HasEquity != nil && *filter.HasEquity {
		b.WhereExpr("j.equity > 0")
	}
	return b.Build("j.title, j.id")
}
