package userservice

var rolePermissions = map[Role]Permissions{
	RoleStaff: {PermissionWriteBlog},
	RoleAdmin: {PermissionReviewBlog},
}

func (s *Session) Permissions() Permissions {
	return rolePermissions[s.Role]
}

func (s *Session) HasPermission(permission Permission) bool {
	for _, p := range s.Permissions() {
		if p == permission {
			return true
		}
	}

	return false
}

func (s *Session) IsAnonymous() bool {
	return s == &AnonymousSession
}
