package db

// Schema models. Migrate hands these to gorm's AutoMigrate; queries run
// through pgx and never load these structs.

type CompanyModel struct {
	Handle       string  `gorm:"column:handle;type:varchar(25);primaryKey"`
	Name         string  `gorm:"column:name;type:text;uniqueIndex;not null"`
	NumEmployees *int    `gorm:"column:num_employees;check:chk_companies_num_employees,num_employees >= 0"`
	Description  string  `gorm:"column:description;type:text;not null;default:''"`
	LogoURL      *string `gorm:"column:logo_url;type:text"`
}

func (CompanyModel) TableName() string { return "companies" }

type JobModel struct {
	ID            int          `gorm:"column:id;primaryKey;autoIncrement"`
	Title         string       `gorm:"column:title;type:text;not null"`
	Salary        *int         `gorm:"column:salary;check:chk_jobs_salary,salary >= 0"`
	Equity        *string      `gorm:"column:equity;type:numeric;check:chk_jobs_equity,equity <= 1.0"`
	CompanyHandle string       `gorm:"column:company_handle;type:varchar(25);not null;index"`
	Company       CompanyModel `gorm:"foreignKey:CompanyHandle;references:Handle;constraint:OnDelete:CASCADE"`
}

func (JobModel) TableName() string { return "jobs" }

type UserModel struct {
	Username  string `gorm:"column:username;type:varchar(25);primaryKey"`
	Password  string `gorm:"column:password;type:text;not null"`
	FirstName string `gorm:"column:first_name;type:text;not null"`
	LastName  string `gorm:"column:last_name;type:text;not null"`
	Email     string `gorm:"column:email;type:text;not null;check:chk_users_email,position('@' IN email) > 1"`
	IsAdmin   bool   `gorm:"column:is_admin;not null;default:false"`
}

func (UserModel) TableName() string { return "users" }

type ApplicationModel struct {
	Username string    `gorm:"column:username;type:varchar(25);primaryKey"`
	JobID    int       `gorm:"column:job_id;primaryKey;autoIncrement:false"`
	User     UserModel `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE"`
	Job      JobModel  `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ApplicationModel) TableName() string { return "applications" }

func schemaModels() []any {
	return []any{&CompanyModel{}, &JobModel{}, &UserModel{}, &ApplicationModel{}}
}
