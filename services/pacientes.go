package services

import (
	"strings"

	"clinica/apperror"
	"clinica/models"
	"clinica/tools"

	"github.com/jinzhu/gorm"
)

const msgCPFTaken = "já existe um paciente com este CPF"

// PacienteInput é usado no cadastro e na edição (PUT substitui todos os campos).
type PacienteInput struct {
	Nome           string `json:"nome" binding:"required,min=2,max=160"`
	CPF            string `json:"cpf" binding:"omitempty,cpf"`
	DataNascimento string `json:"data_nascimento" binding:"omitempty,datetime=2006-01-02"`
	Sexo           string `json:"sexo" binding:"omitempty,oneof=F M O"`
	Telefone       string `json:"telefone" binding:"max=30"`
	Email          string `json:"email" binding:"omitempty,email,max=160"`
	Responsavel    string `json:"responsavel" binding:"max=160"`
	Endereco       string `json:"endereco" binding:"max=255"`
	Convenio       string `json:"convenio" binding:"max=120"`
	Observacoes    string `json:"observacoes"`
	TerapeutaID    *int64 `json:"terapeuta_id" binding:"omitempty,gt=0"`
	Ativo          *bool  `json:"ativo"`
}

type PacienteFilter struct {
	Q           string
	Ativo       *bool
	TerapeutaID *int64
	Pagination
}

func ListPacientes(db *gorm.DB, f PacienteFilter) (Page[models.Paciente], error) {
	p := f.Pagination.normalize()

	q := db.Model(&models.Paciente{})
	if strings.TrimSpace(f.Q) != "" {
		like := likePattern(f.Q)
		if digits := tools.OnlyDigits(f.Q); digits != "" {
			dl := "%" + digits + "%"
			q = q.Where("LOWER(nome) LIKE ? OR cpf LIKE ? OR telefone LIKE ?", like, dl, dl)
		} else {
			q = q.Where("LOWER(nome) LIKE ?", like)
		}
	}
	if f.Ativo != nil {
		q = q.Where("ativo = ?", *f.Ativo)
	}
	if f.TerapeutaID != nil {
		q = q.Where("terapeuta_id = ?", *f.TerapeutaID)
	}

	var total int
	if err := q.Count(&total).Error; err != nil {
		return Page[models.Paciente]{}, err
	}

	items := []models.Paciente{}
	if err := q.Order("nome asc").Order("id asc").Offset(p.offset()).Limit(p.PageSize).Find(&items).Error; err != nil {
		return Page[models.Paciente]{}, err
	}

	return Page[models.Paciente]{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func GetPaciente(db *gorm.DB, id int64) (models.Paciente, error) {
	var paciente models.Paciente
	if err := first(db, &paciente, id, "paciente não encontrado"); err != nil {
		return models.Paciente{}, err
	}
	return paciente, nil
}

func CreatePaciente(db *gorm.DB, actor UserAccess, in PacienteInput) (models.Paciente, error) {
	paciente, err := normalizePaciente(db, in, 0)
	if err != nil {
		return models.Paciente{}, err
	}
	paciente.Ativo = true

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&paciente).Error; err != nil {
			return onConflict(err, msgCPFTaken)
		}
		return Audit(tx, actor.UserID(), models.AUDIT_CREATE, "pacientes", paciente.ID, paciente.Nome)
	})
	if err != nil {
		return models.Paciente{}, err
	}
	return GetPaciente(db, paciente.ID)
}

func UpdatePaciente(db *gorm.DB, actor UserAccess, id int64, in PacienteInput) (models.Paciente, error) {
	current, err := GetPaciente(db, id)
	if err != nil {
		return models.Paciente{}, err
	}

	p, err := normalizePaciente(db, in, current.ID)
	if err != nil {
		return models.Paciente{}, err
	}

	// map para que campos vazios também sejam gravados
	changes := map[string]interface{}{
		"nome":            p.Nome,
		"cpf":             p.CPF,
		"data_nascimento": p.DataNascimento,
		"sexo":            p.Sexo,
		"telefone":        p.Telefone,
		"email":           p.Email,
		"responsavel":     p.Responsavel,
		"endereco":        p.Endereco,
		"convenio":        p.Convenio,
		"observacoes":     p.Observacoes,
		"terapeuta_id":    p.TerapeutaID,
	}
	if in.Ativo != nil {
		changes["ativo"] = *in.Ativo
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Paciente{}).Where("id = ?", current.ID).Updates(changes).Error; err != nil {
			return onConflict(err, msgCPFTaken)
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "pacientes", current.ID, p.Nome)
	})
	if err != nil {
		return models.Paciente{}, err
	}
	return GetPaciente(db, current.ID)
}

// DeactivatePaciente é o DELETE de pacientes: o registro clínico é mantido.
func DeactivatePaciente(db *gorm.DB, actor UserAccess, id int64) (models.Paciente, error) {
	paciente, err := GetPaciente(db, id)
	if err != nil {
		return models.Paciente{}, err
	}
	if !paciente.Ativo {
		return paciente, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Paciente{}).Where("id = ?", paciente.ID).Update("ativo", false).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_DELETE, "pacientes", paciente.ID, "inativado")
	})
	if err != nil {
		return models.Paciente{}, err
	}
	return GetPaciente(db, paciente.ID)
}

// normalizePaciente valida e normaliza a entrada: CPF só com dígitos, telefone
// no formato internacional, nascimento sem data futura.
func normalizePaciente(db *gorm.DB, in PacienteInput, selfID int64) (models.Paciente, error) {
	problems := map[string][]string{}

	var cpf *string
	if strings.TrimSpace(in.CPF) != "" {
		if !tools.ValidateCPF(in.CPF) {
			problems["cpf"] = append(problems["cpf"], "CPF inválido")
		} else {
			digits := tools.OnlyDigits(in.CPF)
			cpf = &digits
		}
	}

	nascimento, err := parseDate(in.DataNascimento)
	if err != nil {
		problems["data_nascimento"] = append(problems["data_nascimento"], "data inválida, use o formato 2006-01-02")
	} else if nascimento != nil && nascimento.After(nowUTC()) {
		problems["data_nascimento"] = append(problems["data_nascimento"], "não pode estar no futuro")
	}

	telefone := strings.TrimSpace(in.Telefone)
	if telefone != "" {
		normalized, err := tools.NormalizePhone(telefone)
		if err != nil {
			problems["telefone"] = append(problems["telefone"], "telefone inválido")
		} else {
			telefone = normalized
		}
	}

	if len(problems) > 0 {
		return models.Paciente{}, apperror.Validation(problems)
	}

	if cpf != nil {
		var count int
		if err := db.Model(&models.Paciente{}).Where("cpf = ? AND id <> ?", *cpf, selfID).Count(&count).Error; err != nil {
			return models.Paciente{}, err
		}
		if count > 0 {
			return models.Paciente{}, apperror.Conflict(msgCPFTaken)
		}
	}
	if in.TerapeutaID != nil {
		if err := checkTerapeutaExists(db, *in.TerapeutaID); err != nil {
			return models.Paciente{}, err
		}
	}

	return models.Paciente{
		Nome:           strings.TrimSpace(in.Nome),
		CPF:            cpf,
		DataNascimento: nascimento,
		Sexo:           strings.ToUpper(strings.TrimSpace(in.Sexo)),
		Telefone:       telefone,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Responsavel:    strings.TrimSpace(in.Responsavel),
		Endereco:       strings.TrimSpace(in.Endereco),
		Convenio:       strings.TrimSpace(in.Convenio),
		Observacoes:    strings.TrimSpace(in.Observacoes),
		TerapeutaID:    in.TerapeutaID,
	}, nil
}
