package domain

import "context"

type CompanyRepository interface {
	Create(ctx context.Context, company Company) (Company, error)
	FindAll(ctx context.Context, filter CompanyFilter) ([]Company, error)
	Get(ctx context.Context, handle string) (CompanyDetail, error)
	Update(ctx context.Context, handle string, patch CompanyPatch) (Company, error)
	Remove(ctx context.Context, handle string) error
}

type JobRepository interface {
	Create(ctx context.Context, job Job) (Job, error)
	FindAll(ctx context.Context, filter JobFilter) ([]Job, error)
	Get(ctx context.Context, id int) (JobDetail, error)
	Update(ctx context.Context, id int, patch JobPatch) (Job, error)
	Remove(ctx context.Context, id int) error
}

type UserRepository interface {
	Register(ctx context.Context, user NewUser) (User, error)
	Authenticate(ctx context.Context, username, password string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	Get(ctx context.Context, username string) (UserDetail, error)
	Update(ctx context.Context, username string, patch UserPatch) (User, error)
	Remove(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int) error
}
