package models

/************************************************
/**** MARK: PERMISSIONS ****/
/************************************************/
const PERM_PACIENTES_READ = "pacientes:read"
const PERM_PACIENTES_WRITE = "pacientes:write"
const PERM_TERAPEUTAS_READ = "terapeutas:read"
const PERM_TERAPEUTAS_WRITE = "terapeutas:write"
const PERM_ANAMNESE_READ = "anamnese:read"
const PERM_ANAMNESE_WRITE = "anamnese:write"
const PERM_PRONTUARIO_READ = "prontuario:read"
const PERM_EVOLUCOES_WRITE = "evolucoes:write"
const PERM_AGENDA_READ = "agenda:read"
const PERM_AGENDA_WRITE = "agenda:write"
const PERM_RELATORIOS_READ = "relatorios:read"
const PERM_USERS_READ = "users:read"
const PERM_USERS_WRITE = "users:write"
const PERM_ROLES_READ = "roles:read"
const PERM_ROLES_WRITE = "roles:write"
const PERM_AUDIT_READ = "audit:read"

// Permission é uma ação autorizável no formato recurso:acao.
type Permission struct {
	ID          int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name        string `gorm:"not null;unique_index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// PermissionCatalog é o conjunto de permissões semeado no banco.
var PermissionCatalog = []Permission{
	{Name: PERM_PACIENTES_READ, Description: "Visualizar pacientes"},
	{Name: PERM_PACIENTES_WRITE, Description: "Cadastrar e editar pacientes"},
	{Name: PERM_TERAPEUTAS_READ, Description: "Visualizar terapeutas"},
	{Name: PERM_TERAPEUTAS_WRITE, Description: "Cadastrar e editar terapeutas"},
	{Name: PERM_ANAMNESE_READ, Description: "Visualizar anamneses"},
	{Name: PERM_ANAMNESE_WRITE, Description: "Registrar anamneses"},
	{Name: PERM_PRONTUARIO_READ, Description: "Visualizar prontuários"},
	{Name: PERM_EVOLUCOES_WRITE, Description: "Registrar evoluções"},
	{Name: PERM_AGENDA_READ, Description: "Visualizar agenda"},
	{Name: PERM_AGENDA_WRITE, Description: "Gerenciar agendamentos"},
	{Name: PERM_RELATORIOS_READ, Description: "Visualizar relatórios"},
	{Name: PERM_USERS_READ, Description: "Visualizar usuários"},
	{Name: PERM_USERS_WRITE, Description: "Gerenciar usuários"},
	{Name: PERM_ROLES_READ, Description: "Visualizar papéis e permissões"},
	{Name: PERM_ROLES_WRITE, Description: "Gerenciar papéis"},
	{Name: PERM_AUDIT_READ, Description: "Visualizar auditoria"},
}

// DefaultRolePermissions define as permissões dos papéis padrão (admin recebe todas).
var DefaultRolePermissions = map[string][]string{
	ROLE_TERAPEUTA: {
		PERM_PACIENTES_READ, PERM_TERAPEUTAS_READ,
		PERM_ANAMNESE_READ, PERM_ANAMNESE_WRITE,
		PERM_PRONTUARIO_READ, PERM_EVOLUCOES_WRITE,
		PERM_AGENDA_READ, PERM_AGENDA_WRITE,
		PERM_RELATORIOS_READ,
	},
	ROLE_RECEPCAO: {
		PERM_PACIENTES_READ, PERM_PACIENTES_WRITE,
		PERM_TERAPEUTAS_READ,
		PERM_AGENDA_READ, PERM_AGENDA_WRITE,
	},
}
