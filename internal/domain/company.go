package domain

type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyDetail is a company together with the jobs it posts.
type CompanyDetail struct {
	Company
	Jobs []JobSummary `json:"jobs"`
}

// CompanyFilter narrows a company listing. Nil fields add no predicate.
type CompanyFilter struct {
	NameLike     *string
	MinEmployees *int
	MaxEmployees *int
}
