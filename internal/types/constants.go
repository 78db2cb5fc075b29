package types

const ContextUserKey = "user"

// Roles as stored in UserDetail.Type and carried in the token's role claim.
const (
	RoleAdmin     = "administrador"
	RoleProfessor = "profesor"
	RoleStudent   = "alumno"
)

var Roles = []string{RoleAdmin, RoleProfessor, RoleStudent}

func IsRole(s string) bool {
	for _, r := range Roles {
		if r == s {
			return true
		}
	}
	return false
}
