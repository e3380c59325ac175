package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

// User rows store the email lower-cased, so the unique index is case-insensitive
// without a functional index.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(254);not null;uniqueIndex:uni_users_email"`
	Password  string    `gorm:"not null"`
	Name      string    `gorm:"not null"`
	Role      string    `gorm:"type:varchar(20);not null;check:chk_users_role,role IN ('attendee','organizer')"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	user.Email = normalizeEmail(user.Email)

	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, userEmailIndex) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	return d.first(ctx, d.db.Where("id = ?", id))
}

// FindByEmail matches regardless of case and surrounding spaces.
func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	return d.first(ctx, d.db.Where("email = ?", normalizeEmail(email)))
}

func (d *UserDAO) first(ctx context.Context, query *gorm.DB) (User, error) {
	var user User

	result := query.WithContext(ctx).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}
