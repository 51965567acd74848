package access

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authgrid/authgrid/internal/platform/db"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("access: not found")

// ErrDuplicate indicates a uniqueness conflict (role name, element code, or
// an already-existing (role, element) rule).
var ErrDuplicate = errors.New("access: duplicate")

// Repository defines persistence for roles, business elements, access rules
// and user-role bindings.
type Repository interface {
	RoleByUser(ctx context.Context, userID int64) (*Role, error)
	ElementByCode(ctx context.Context, code string) (*BusinessElement, error)
	RuleFor(ctx context.Context, roleID, elementID int64) (*AccessRule, error)

	ListRoles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, name, description string) (*Role, error)
	DeleteRole(ctx context.Context, id int64) error

	BindUserRole(ctx context.Context, userID, roleID int64) error
	EnsureBinding(ctx context.Context, userID int64, roleName, description string) (*Role, error)

	ListElements(ctx context.Context) ([]BusinessElement, error)
	CreateElement(ctx context.Context, code, name string) (*BusinessElement, error)
	DeleteElement(ctx context.Context, id int64) error

	ListRules(ctx context.Context) ([]AccessRule, error)
	GetRule(ctx context.Context, id int64) (*AccessRule, error)
	CreateRule(ctx context.Context, rule AccessRule) (*AccessRule, error)
	UpdateRule(ctx context.Context, rule AccessRule) error
	DeleteRule(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL. Cascading cleanup of
// dependent rules and bindings is enforced by foreign keys declared in the
// schema, so deletes here touch a single table.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// RoleByUser resolves the single role bound to a user.
func (r *PGRepository) RoleByUser(ctx context.Context, userID int64) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`SELECT r.id, r.name, r.description
		 FROM roles r JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1`, userID,
	).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ElementByCode fetches a business element by its unique code.
func (r *PGRepository) ElementByCode(ctx context.Context, code string) (*BusinessElement, error) {
	var element BusinessElement
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name FROM business_elements WHERE code = $1`, code,
	).Scan(&element.ID, &element.Code, &element.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &element, nil
}

// RuleFor fetches the rule for a (role, element) pair.
func (r *PGRepository) RuleFor(ctx context.Context, roleID, elementID int64) (*AccessRule, error) {
	rule, err := r.scanRule(r.pool.QueryRow(ctx,
		ruleSelect+` WHERE role_id = $1 AND element_id = $2`, roleID, elementID))
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRoles returns all roles ordered by id.
func (r *PGRepository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CreateRole inserts a new role.
func (r *PGRepository) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	role := &Role{Name: name, Description: description}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id`,
		name, description,
	).Scan(&role.ID)
	if err != nil {
		return nil, mapPGError(err)
	}
	return role, nil
}

// EnsureBinding upserts the named role and binds the user to it in a single
// transaction, so a half-created default binding never becomes visible.
func (r *PGRepository) EnsureBinding(ctx context.Context, userID int64, roleName, description string) (*Role, error) {
	role := &Role{}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO roles (name, description) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id, name, description`,
			roleName, description,
		).Scan(&role.ID, &role.Name, &role.Description)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
			 ON CONFLICT (user_id) DO UPDATE SET role_id = EXCLUDED.role_id`,
			userID, role.ID)
		return err
	})
	if err != nil {
		return nil, mapPGError(err)
	}
	return role, nil
}

// DeleteRole removes a role; rules and user bindings go with it via FK
// cascade.
func (r *PGRepository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BindUserRole assigns the role to the user. The user_id unique constraint
// enforces at most one role per user; an existing binding is replaced.
func (r *PGRepository) BindUserRole(ctx context.Context, userID, roleID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET role_id = EXCLUDED.role_id`,
		userID, roleID)
	return mapPGError(err)
}

// ListElements returns all business elements ordered by id.
func (r *PGRepository) ListElements(ctx context.Context) ([]BusinessElement, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name FROM business_elements ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var elements []BusinessElement
	for rows.Next() {
		var element BusinessElement
		if err := rows.Scan(&element.ID, &element.Code, &element.Name); err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	return elements, rows.Err()
}

// CreateElement inserts a new business element.
func (r *PGRepository) CreateElement(ctx context.Context, code, name string) (*BusinessElement, error) {
	element := &BusinessElement{Code: code, Name: name}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO business_elements (code, name) VALUES ($1, $2) RETURNING id`,
		code, name,
	).Scan(&element.ID)
	if err != nil {
		return nil, mapPGError(err)
	}
	return element, nil
}

// DeleteElement removes a business element and, via FK cascade, its rules.
func (r *PGRepository) DeleteElement(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM business_elements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const ruleSelect = `SELECT id, role_id, element_id,
	read_permission, read_all_permission, create_permission,
	update_permission, update_all_permission, delete_permission, delete_all_permission
	FROM access_rules`

// ListRules returns all access rules ordered by id.
func (r *PGRepository) ListRules(ctx context.Context) ([]AccessRule, error) {
	rows, err := r.pool.Query(ctx, ruleSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rules []AccessRule
	for rows.Next() {
		var rule AccessRule
		if err := rows.Scan(&rule.ID, &rule.RoleID, &rule.ElementID,
			&rule.Read, &rule.ReadAll, &rule.Create,
			&rule.Update, &rule.UpdateAll, &rule.Delete, &rule.DeleteAll); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// GetRule fetches one rule by id.
func (r *PGRepository) GetRule(ctx context.Context, id int64) (*AccessRule, error) {
	return r.scanRule(r.pool.QueryRow(ctx, ruleSelect+` WHERE id = $1`, id))
}

// CreateRule inserts a rule. A second writer for the same (role, element)
// pair hits the composite unique index and surfaces ErrDuplicate.
func (r *PGRepository) CreateRule(ctx context.Context, rule AccessRule) (*AccessRule, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO access_rules (role_id, element_id,
			read_permission, read_all_permission, create_permission,
			update_permission, update_all_permission, delete_permission, delete_all_permission)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		rule.RoleID, rule.ElementID,
		rule.Read, rule.ReadAll, rule.Create,
		rule.Update, rule.UpdateAll, rule.Delete, rule.DeleteAll,
	).Scan(&rule.ID)
	if err != nil {
		return nil, mapPGError(err)
	}
	return &rule, nil
}

// UpdateRule persists all flags of an existing rule.
func (r *PGRepository) UpdateRule(ctx context.Context, rule AccessRule) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE access_rules SET
			read_permission = $2, read_all_permission = $3, create_permission = $4,
			update_permission = $5, update_all_permission = $6,
			delete_permission = $7, delete_all_permission = $8
		 WHERE id = $1`,
		rule.ID,
		rule.Read, rule.ReadAll, rule.Create,
		rule.Update, rule.UpdateAll, rule.Delete, rule.DeleteAll)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRule removes one rule by id.
func (r *PGRepository) DeleteRule(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM access_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) scanRule(row pgx.Row) (*AccessRule, error) {
	var rule AccessRule
	err := row.Scan(&rule.ID, &rule.RoleID, &rule.ElementID,
		&rule.Read, &rule.ReadAll, &rule.Create,
		&rule.Update, &rule.UpdateAll, &rule.Delete, &rule.DeleteAll)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
