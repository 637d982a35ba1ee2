package services

import (
	"sort"
	"strings"

	"clinica/apperror"
	"clinica/models"

	"github.com/jinzhu/gorm"
)

const msgRoleTaken = "já existe um papel com este nome"

type RoleInput struct {
	Name        string   `json:"name" binding:"required,min=2,max=60"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions" binding:"required,dive,required"`
}

func ListPermissions(db *gorm.DB) ([]models.Permission, error) {
	var perms []models.Permission
	if err := db.Order("name asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func ListRoles(db *gorm.DB) ([]models.Role, error) {
	var roles []models.Role
	if err := db.Preload("Permissions").Order("name asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func GetRole(db *gorm.DB, id int64) (models.Role, error) {
	var role models.Role
	if err := first(db.Preload("Permissions"), &role, id, "papel não encontrado"); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func CreateRole(db *gorm.DB, actor UserAccess, in RoleInput) (models.Role, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if err := checkRoleNameFree(db, name, 0); err != nil {
		return models.Role{}, err
	}
	perms, err := resolvePermissions(db, in.Permissions)
	if err != nil {
		return models.Role{}, err
	}

	role := models.Role{Name: name, Description: strings.TrimSpace(in.Description)}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return onConflict(err, msgRoleTaken)
		}
		if err := tx.Model(&role).Association("Permissions").Replace(perms).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_CREATE, "roles", role.ID, map[string]interface{}{
			"name":        role.Name,
			"permissions": permissionNames(perms),
		})
	})
	if err != nil {
		return models.Role{}, err
	}
	return GetRole(db, role.ID)
}

// UpdateRole troca nome, descrição e o conjunto de permissões de uma vez.
// O papel admin é fixo.
func UpdateRole(db *gorm.DB, actor UserAccess, id int64, in RoleInput) (models.Role, error) {
	role, err := GetRole(db, id)
	if err != nil {
		return models.Role{}, err
	}
	if role.Name == models.ROLE_ADMIN {
		return models.Role{}, apperror.Conflict("o papel admin não pode ser alterado")
	}

	name := strings.ToLower(strings.TrimSpace(in.Name))
	if name == models.ROLE_ADMIN {
		return models.Role{}, apperror.Conflict(msgRoleTaken)
	}
	if err := checkRoleNameFree(db, name, role.ID); err != nil {
		return models.Role{}, err
	}
	perms, err := resolvePermissions(db, in.Permissions)
	if err != nil {
		return models.Role{}, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		changes := map[string]interface{}{
			"name":        name,
			"description": strings.TrimSpace(in.Description),
		}
		if err := tx.Model(&models.Role{}).Where("id = ?", role.ID).Updates(changes).Error; err != nil {
			return onConflict(err, msgRoleTaken)
		}
		if err := tx.Model(&role).Association("Permissions").Replace(perms).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "roles", role.ID, map[string]interface{}{
			"name":        name,
			"permissions": permissionNames(perms),
		})
	})
	if err != nil {
		return models.Role{}, err
	}
	return GetRole(db, role.ID)
}

// DeleteRole remove um papel sem usuários. admin nunca é removido.
func DeleteRole(db *gorm.DB, actor UserAccess, id int64) error {
	role, err := GetRole(db, id)
	if err != nil {
		return err
	}
	if role.Name == models.ROLE_ADMIN {
		return apperror.Conflict("o papel admin não pode ser removido")
	}

	var users int
	if err := db.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return apperror.Conflict("existem usuários com este papel")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&role).Association("Permissions").Clear().Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Role{}, "id = ?", role.ID).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_DELETE, "roles", role.ID, role.Name)
	})
}

func checkRoleNameFree(db *gorm.DB, name string, exceptID int64) error {
	var count int
	if err := db.Model(&models.Role{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict(msgRoleTaken)
	}
	return nil
}

// resolvePermissions carrega as permissões pelo nome; nomes desconhecidos viram erro de campo.
func resolvePermissions(db *gorm.DB, names []string) ([]models.Permission, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = struct{}{}
	}
	list := make([]string, 0, len(wanted))
	for n := range wanted {
		list = append(list, n)
	}
	sort.Strings(list)

	perms := []models.Permission{}
	if len(list) == 0 {
		return perms, nil
	}
	if err := db.Where("name IN (?)", list).Order("name asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	if len(perms) != len(list) {
		found := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			found[p.Name] = struct{}{}
		}
		var unknown []string
		for _, n := range list {
			if _, ok := found[n]; !ok {
				unknown = append(unknown, n)
			}
		}
		return nil, apperror.Field("permissions", "permissões desconhecidas: "+strings.Join(unknown, ", "))
	}
	return perms, nil
}

func permissionNames(perms []models.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.Name)
	}
	return out
}
