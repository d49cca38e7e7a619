package database

import (
	"github.com/charterhub/roster-backend/internal/models"
)

// AdminUserRepository handles database operations for admin accounts
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByUsername retrieves an admin account by username
func (r *AdminUserRepository) GetByUsername(username string) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	err := r.db.Get(user, `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = $1`, username)
	if err != nil {
		return nil, storeErr(err, "admin user not found", "admin user conflict", "failed to fetch admin user")
	}
	return user, nil
}

// Create inserts a new admin account
func (r *AdminUserRepository) Create(user *models.AdminUser) error {
	err := r.db.QueryRow(`
		INSERT INTO admin_users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		user.Username, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return storeErr(err, "admin user not found", "username already taken", "failed to create admin user")
	}
	return nil
}
