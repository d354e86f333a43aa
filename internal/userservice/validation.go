package userservice

import (
	"regexp"
	"strings"

	"github.com/ogcamping/console/internal/common"
)

var (
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

func validateRole(v *common.Validator, role Role) {
	v.Check(common.PermittedValue(role, RoleStaff, RoleAdmin, RoleCustomer), "role", "must be one of STAFF, ADMIN or CUSTOMER")
}

func ValidateToken(v *common.Validator, token string) {
	v.Check(token != "", "token", "must be provided")
	v.Check(len(token) <= 4096, "token", "must not be more than 4096 bytes long")
	v.Check(!strings.ContainsAny(token, " \t\r\n"), "token", "invalid token")
}
