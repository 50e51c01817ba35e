package domain

type Job struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
	CompanyName   string  `json:"companyName,omitempty"`
}

type JobSummary struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Salary *int    `json:"salary"`
	Equity *string `json:"equity"`
}

type JobDetail struct {
	JobSummary
	Company Company `json:"company"`
}

type JobFilter struct {
	Title     *string
	MinSalary *int
	HasEquity *bool
}
