package domain

// Patch types carry partial updates. A nil field is left unchanged.

type CompanyPatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

type JobPatch struct {
	Title  *string `json:"title"`
	Salary *int    `json:"salary"`
	Equity *string `json:"equity"`
}

type UserPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	IsAdmin   *bool   `json:"isAdmin"`
}
