package user

import (
	"database/sql"
	"strings"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getUserByIDQuery    = `SELECT id, email, password, created_at FROM catalog_user WHERE id = $1`
	getUserByEmailQuery = `SELECT id, email, password, created_at FROM catalog_user WHERE LOWER(email) = LOWER($1)`
	insertUserQuery     = `INSERT INTO catalog_user (email, password, created_at) VALUES ($1,$2,$3) RETURNING id`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.scanOne(r.db.QueryRow(getUserByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return r.scanOne(r.db.QueryRow(getUserByEmailQuery, email))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	var id int
	err := r.db.QueryRow(insertUserQuery, u.Email, u.Password, u.CreatedAt).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (User, error) {
	var u User
	var createdAt sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if createdAt.Valid {
		u.CreatedAt = createdAt.String
	}
	return u, nil
}
