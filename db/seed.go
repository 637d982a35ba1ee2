package db

import (
	"strings"

	"clinica/config"
	"clinica/logger"
	"clinica/models"
	"clinica/tools"

	"github.com/jinzhu/gorm"
)

// Seed garante o catálogo de permissões, os papéis padrão e o admin inicial.
// Pode rodar a cada boot: só cria o que estiver faltando.
func Seed(db *gorm.DB, conf config.Configuration) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedPermissions(tx); err != nil {
			return err
		}
		if err := seedRoles(tx); err != nil {
			return err
		}
		return seedAdminUser(tx, conf)
	})
}

func seedPermissions(tx *gorm.DB) error {
	for _, p := range models.PermissionCatalog {
		perm := p
		if err := tx.Where(models.Permission{Name: perm.Name}).
			Attrs(models.Permission{Description: perm.Description}).
			FirstOrCreate(&perm).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRoles(tx *gorm.DB) error {
	var all []models.Permission
	if err := tx.Order("name asc").Find(&all).Error; err != nil {
		return err
	}

	defaults := []models.Role{
		{Name: models.ROLE_ADMIN, Description: "Administrador do sistema"},
		{Name: models.ROLE_TERAPEUTA, Description: "Terapeuta"},
		{Name: models.ROLE_RECEPCAO, Description: "Recepção"},
	}

	for _, r := range defaults {
		role := r
		var count int
		if err := tx.Model(&models.Role{}).Where("name = ?", role.Name).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := tx.Create(&role).Error; err != nil {
				return err
			}
			if err := tx.Model(&role).Association("Permissions").Replace(permissionsFor(role.Name, all)).Error; err != nil {
				return err
			}
			logger.Log.WithField("role", role.Name).Info("papel criado")
			continue
		}

		// admin sempre recebe permissões novas do catálogo
		if role.Name == models.ROLE_ADMIN {
			if err := tx.Where("name = ?", role.Name).First(&role).Error; err != nil {
				return err
			}
			if err := tx.Model(&role).Association("Permissions").Replace(all).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func permissionsFor(role string, all []models.Permission) []models.Permission {
	if role == models.ROLE_ADMIN {
		return all
	}
	wanted := make(map[string]struct{})
	for _, name := range models.DefaultRolePermissions[role] {
		wanted[name] = struct{}{}
	}
	out := make([]models.Permission, 0, len(wanted))
	for _, p := range all {
		if _, ok := wanted[p.Name]; ok {
			out = append(out, p)
		}
	}
	return out
}

func seedAdminUser(tx *gorm.DB, conf config.Configuration) error {
	email := strings.ToLower(strings.TrimSpace(conf.Seed.AdminEmail))
	if email == "" || conf.Seed.AdminPassword == "" {
		return nil
	}

	var userCount int
	if err := tx.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	var adminRole models.Role
	if err := tx.Where("name = ?", models.ROLE_ADMIN).First(&adminRole).Error; err != nil {
		return err
	}

	hash, err := tools.HashPassword(conf.Seed.AdminPassword, conf.Security.BcryptCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     conf.Seed.AdminName,
		Email:    email,
		Password: hash,
		RoleID:   adminRole.ID,
		Active:   true,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return err
	}
	logger.Log.WithField("email", email).Info("usuário admin inicial criado")
	return nil
}
