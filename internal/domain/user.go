package domain

// UserRole define os papéis reconhecidos pelo console administrativo.
// A autenticação em si é um colaborador externo: este serviço apenas consome
// a identidade (currentUser) e os papéis vindos do token.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEditor   UserRole = "editor"
	RoleVendedor UserRole = "vendedor"
	RoleCliente  UserRole = "cliente"
)

// CurrentUser é a identidade mínima que o restante do sistema enxerga.
type CurrentUser struct {
	ID    string
	Email string
	Roles []UserRole
}

// HasRole responde se o usuário possui o papel dado.
func (u CurrentUser) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
