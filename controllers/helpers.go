package controllers

import (
	"strconv"
	"strings"

	"clinica/apperror"
	dbpkg "clinica/db"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func ParamID(c *gin.Context, name string) (int64, bool) {
	v := c.Param(name)
	if v == "" {
		RespondError(c, apperror.BadRequest(name+" é obrigatório"))
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, apperror.BadRequest(name+" inválido"))
		return 0, false
	}
	return id, true
}

// database devolve a conexão colocada no contexto pelo router.
func database(c *gin.Context) (*gorm.DB, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, apperror.Unavailable("db não configurado no contexto", nil))
		return nil, false
	}
	return db, true
}

// queryInt64 lê um id opcional da query string. Ausente devolve nil.
func queryInt64(c *gin.Context, name string) (*int64, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		RespondError(c, apperror.Field(name, "deve ser um número positivo"))
		return nil, false
	}
	return &n, true
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		RespondError(c, apperror.Field(name, "deve ser true ou false"))
		return nil, false
	}
	return &b, true
}

// queryInt lê um inteiro opcional; ausente ou inválido devolve def.
func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return def
	}
	return n
}
