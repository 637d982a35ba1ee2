package services

import (
	"strings"

	"clinica/apperror"
	"clinica/models"
	"clinica/tools"

	"github.com/jinzhu/gorm"
)

const msgEmailTaken = "já existe um usuário com este e-mail"

type CreateUserInput struct {
	Name        string `json:"name" binding:"required,min=2,max=120"`
	Email       string `json:"email" binding:"required,email,max=160"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	RoleID      int64  `json:"role_id" binding:"required,gt=0"`
	TerapeutaID *int64 `json:"terapeuta_id" binding:"omitempty,gt=0"`
}

// UpdateUserInput é parcial: campos ausentes não mudam. terapeuta_id = 0 desvincula.
type UpdateUserInput struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=120"`
	Email       *string `json:"email" binding:"omitempty,email,max=160"`
	RoleID      *int64  `json:"role_id" binding:"omitempty,gt=0"`
	TerapeutaID *int64  `json:"terapeuta_id" binding:"omitempty,min=0"`
	Active      *bool   `json:"active"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

type UserFilter struct {
	Q      string
	Active *bool
}

func ListUsers(db *gorm.DB, f UserFilter) ([]models.User, error) {
	q := db.Preload("Role")
	if strings.TrimSpace(f.Q) != "" {
		p := likePattern(f.Q)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var users []models.User
	if err := q.Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func GetUser(db *gorm.DB, id int64) (models.User, error) {
	var user models.User
	if err := first(db.Preload("Role").Preload("Role.Permissions"), &user, id, "usuário não encontrado"); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CreateUser cadastra um usuário ativo com a senha já em bcrypt.
func CreateUser(db *gorm.DB, ts TokenSettings, actor UserAccess, in CreateUserInput) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := checkEmailFree(db, email, 0); err != nil {
		return models.User{}, err
	}
	if err := checkRoleExists(db, in.RoleID); err != nil {
		return models.User{}, err
	}
	if in.TerapeutaID != nil {
		if err := checkTerapeutaExists(db, *in.TerapeutaID); err != nil {
			return models.User{}, err
		}
	}

	hash, err := tools.HashPassword(in.Password, ts.BcryptCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Password:    hash,
		RoleID:      in.RoleID,
		TerapeutaID: in.TerapeutaID,
		Active:      true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return onConflict(err, msgEmailTaken)
		}
		return Audit(tx, actor.UserID(), models.AUDIT_CREATE, "users", user.ID, map[string]interface{}{
			"email":   user.Email,
			"role_id": user.RoleID,
		})
	})
	if err != nil {
		return models.User{}, err
	}
	return GetUser(db, user.ID)
}

// UpdateUser aplica a atualização parcial. O ator não pode se desativar nem
// trocar o próprio papel por um sem users:write.
func UpdateUser(db *gorm.DB, actor UserAccess, id int64, in UpdateUserInput) (models.User, error) {
	user, err := GetUser(db, id)
	if err != nil {
		return models.User{}, err
	}

	changes := map[string]interface{}{}

	if in.Name != nil {
		changes["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if err := checkEmailFree(db, email, user.ID); err != nil {
				return models.User{}, err
			}
			changes["email"] = email
		}
	}
	if in.RoleID != nil && *in.RoleID != user.RoleID {
		if err := checkRoleExists(db, *in.RoleID); err != nil {
			return models.User{}, err
		}
		if user.ID == actor.UserID() {
			keeps, err := roleHasPermission(db, *in.RoleID, models.PERM_USERS_WRITE)
			if err != nil {
				return models.User{}, err
			}
			if !keeps {
				return models.User{}, apperror.Conflict("você não pode remover a sua própria permissão de administrar usuários")
			}
		}
		changes["role_id"] = *in.RoleID
	}
	if in.TerapeutaID != nil {
		if *in.TerapeutaID == 0 {
			changes["terapeuta_id"] = nil
		} else {
			if err := checkTerapeutaExists(db, *in.TerapeutaID); err != nil {
				return models.User{}, err
			}
			changes["terapeuta_id"] = *in.TerapeutaID
		}
	}
	if in.Active != nil && *in.Active != user.Active {
		if !*in.Active && user.ID == actor.UserID() {
			return models.User{}, apperror.Conflict("você não pode desativar o próprio usuário")
		}
		changes["active"] = *in.Active
	}

	if len(changes) == 0 {
		return user, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(changes).Error; err != nil {
			return onConflict(err, msgEmailTaken)
		}
		if active, ok := changes["active"].(bool); ok && !active {
			if err := revokeAllUserRefreshTokens(tx, user.ID, nowUTC()); err != nil {
				return err
			}
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "users", user.ID, changes)
	})
	if err != nil {
		return models.User{}, err
	}
	return GetUser(db, user.ID)
}

// ResetUserPassword define uma nova senha para outro usuário e revoga as sessões dele.
func ResetUserPassword(db *gorm.DB, ts TokenSettings, actor UserAccess, id int64, in ResetPasswordInput) error {
	var user models.User
	if err := first(db, &user, id, "usuário não encontrado"); err != nil {
		return err
	}
	if user.ID == actor.UserID() {
		return apperror.Conflict("use a troca de senha do próprio perfil")
	}
	hash, err := tools.HashPassword(in.NewPassword, ts.BcryptCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := setPassword(tx, user.ID, hash); err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "users", user.ID, "reset de senha")
	})
}

func checkEmailFree(db *gorm.DB, email string, exceptID int64) error {
	var count int
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict(msgEmailTaken)
	}
	return nil
}

func checkRoleExists(db *gorm.DB, roleID int64) error {
	var count int
	if err := db.Model(&models.Role{}).Where("id = ?", roleID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.Field("role_id", "papel não encontrado")
	}
	return nil
}

func checkTerapeutaExists(db *gorm.DB, terapeutaID int64) error {
	var count int
	if err := db.Model(&models.Terapeuta{}).Where("id = ?", terapeutaID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.Field("terapeuta_id", "terapeuta não encontrado")
	}
	return nil
}

func roleHasPermission(db *gorm.DB, roleID int64, perm string) (bool, error) {
	var count int
	err := db.Table("role_permissions").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id = ? AND permissions.name = ?", roleID, perm).
		Count(&count).Error
	return count > 0, err
}
