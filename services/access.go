package services

import (
	"sort"

	"clinica/apperror"
	"clinica/models"

	"github.com/jinzhu/gorm"
)

// UserAccess é o usuário autenticado com o conjunto de permissões do seu papel.
type UserAccess struct {
	User        models.User
	Permissions map[string]struct{}
}

// LoadUserAccess carrega o usuário com Role.Permissions. Usuário inexistente ou
// inativo não tem acesso (401).
func LoadUserAccess(db *gorm.DB, userID int64) (UserAccess, error) {
	var user models.User
	err := db.Preload("Role").Preload("Role.Permissions").First(&user, userID).Error
	if gorm.IsRecordNotFoundError(err) {
		return UserAccess{}, apperror.Unauthorized("usuário não encontrado")
	}
	if err != nil {
		return UserAccess{}, err
	}
	if !user.Active {
		return UserAccess{}, apperror.Unauthorized("usuário inativo")
	}

	perms := make(map[string]struct{}, len(user.Role.Permissions))
	for _, p := range user.Role.Permissions {
		perms[p.Name] = struct{}{}
	}
	return UserAccess{User: user, Permissions: perms}, nil
}

// Can reporta se o acesso tem todas as permissões informadas.
func (a UserAccess) Can(perms ...string) bool {
	for _, p := range perms {
		if _, ok := a.Permissions[p]; !ok {
			return false
		}
	}
	return true
}

// PermissionList devolve as permissões em ordem alfabética.
func (a UserAccess) PermissionList() []string {
	out := make([]string, 0, len(a.Permissions))
	for p := range a.Permissions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// UserID é o id do ator, usado na auditoria.
func (a UserAccess) UserID() int64 {
	return a.User.ID
}
