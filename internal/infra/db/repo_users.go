package db

import (
	"context"
	"errors"
	"fmt"

	"jobly/internal/domain"
	"jobly/internal/infra/sqlbuild"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo struct {
	DB         Querier
	BcryptCost int
}

func NewUserRepo(db Querier, bcryptCost int) *UserRepo {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.MinCost
	}
	return &UserRepo{DB: db, BcryptCost: bcryptCost}
}

// Authenticate checks username and password. Both an unknown user and a
// wrong password report domain.ErrUnauthorized.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if r == nil || r.DB == nil {
		return domain.User{}, errDBUnavailable
	}
	row := r.DB.QueryRow(ctx, `SELECT `+userColumns+`, password FROM users WHERE username = $1`, username)
	var u domain.User
	var hash string
	if err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%w: invalid username/password", domain.ErrUnauthorized)
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.User{}, fmt.Errorf("%w: invalid username/password", domain.ErrUnauthorized)
	}
	return u, nil
}

func (r *UserRepo) Register(ctx context.Context, user domain.NewUser) (domain.User, error) {
	if r == nil || r.DB == nil {
		return domain.User{}, errDBUnavailable
	}
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, user.Username).Scan(&exists); err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, fmt.Errorf("%w: username %s", domain.ErrDuplicate, user.Username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), r.BcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	query := `
INSERT INTO users (username, password, first_name, last_name, email, is_admin)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns
	row := r.DB.QueryRow(ctx, query,
		user.Username,
		string(hash),
		user.FirstName,
		user.LastName,
		user.Email,
		user.IsAdmin,
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: username %s", domain.ErrDuplicate, user.Username)
		}
		return domain.User{}, err
	}
	return created, nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	if r == nil || r.DB == nil {
		return nil, errDBUnavailable
	}
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, username string) (domain.UserDetail, error) {
	if r == nil || r.DB == nil {
		return domain.UserDetail{}, errDBUnavailable
	}
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserDetail{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
		}
		return domain.UserDetail{}, err
	}
	rows, err := r.DB.Query(ctx, `SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`, username)
	if err != nil {
		return domain.UserDetail{}, err
	}
	defer rows.Close()
	detail := domain.UserDetail{User: u, Jobs: []int{}}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return domain.UserDetail{}, err
		}
		detail.Jobs = append(detail.Jobs, id)
	}
	return detail, rows.Err()
}

// Update applies patch. A new password is hashed before it is stored.
func (r *UserRepo) Update(ctx context.Context, username string, patch domain.UserPatch) (domain.User, error) {
	if r == nil || r.DB == nil {
		return domain.User{}, errDBUnavailable
	}
	var update sqlbuild.Update
	if patch.FirstName != nil {
		update.Set("firstName", *patch.FirstName)
	}
	if patch.LastName != nil {
		update.Set("lastName", *patch.LastName)
	}
	if patch.Email != nil {
		update.Set("email", *patch.Email)
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), r.BcryptCost)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		update.Set("password", string(hash))
	}
	if patch.IsAdmin != nil {
		update.Set("isAdmin", *patch.IsAdmin)
	}
	set, err := sqlbuild.PartialUpdate(update, userFieldColumns)
	if err != nil {
		return domain.User{}, err
	}
	query := fmt.Sprintf(`UPDATE users SET %s WHERE username = $%d RETURNING %s`,
		set.SetCols, set.Next(), userColumns)
	u, err := scanUser(r.DB.QueryRow(ctx, query, append(set.Values, username)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *UserRepo) Remove(ctx context.Context, username string) error {
	if r == nil || r.DB == nil {
		return errDBUnavailable
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	return nil
}

// ApplyToJob records an application by username for jobID.
func (r *UserRepo) ApplyToJob(ctx context.Context, username string, jobID int) error {
	if r == nil || r.DB == nil {
		return errDBUnavailable
	}
	var jobExists, userExists bool
	err := r.DB.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1),
       EXISTS (SELECT 1 FROM users WHERE username = $2)`, jobID, username).Scan(&jobExists, &userExists)
	if err != nil {
		return err
	}
	if !jobExists {
		return fmt.Errorf("%w: job %d", domain.ErrNotFound, jobID)
	}
	if !userExists {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	_, err = r.DB.Exec(ctx, `INSERT INTO applications (username, job_id) VALUES ($1, $2)`, username, jobID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: already applied to job %d", domain.ErrDuplicate, jobID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: job %d", domain.ErrNotFound, jobID)
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	return u, err
}
