package userservice

import (
	"database/sql"
	"time"

	"github.com/ogcamping/console/internal/common"
)

type Role string

const (
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"

	SessionTime time.Duration = 12 * time.Hour
)

type Permission string
type Permissions []Permission

const (
	PermissionWriteBlog  Permission = "blog:write"
	PermissionReviewBlog Permission = "blog:review"
)

var (
	AnonymousSession = Session{}
)

type SessionService struct {
	m *DBModel
	c *common.Cache
}

type DBModel struct {
	db *sql.DB
}

// Session binds a backend bearer token to the role and identity the console
// acts with. Only the token hash is stored.
type Session struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	Expiry    time.Time `json:"expiry"`
	CreatedAt time.Time `json:"created_at"`
	Version   int       `json:"version"`

	Hash []byte `json:"-"`
}
