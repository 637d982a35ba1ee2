// Package services concentra as regras da clínica. Cada função recebe a conexão
// gorm (ou a transação) e devolve modelos ou *apperror.AppError.
package services

import (
	"errors"
	"strings"
	"time"

	"clinica/apperror"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const dateLayout = "2006-01-02"

const defaultPageSize = 20
const maxPageSize = 100

// Page é o envelope das listagens paginadas.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Pagination normaliza página (>= 1) e tamanho (1..100).
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.PageSize
}

// first carrega o registro id em out, traduzindo "não encontrado" para 404.
func first(db *gorm.DB, out interface{}, id int64, notFound string) error {
	err := db.First(out, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperror.NotFound(notFound)
	}
	return err
}

// uniqueViolation reconhece violação de índice único no postgres (23505) e no sqlite.
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// onConflict vira 409 quando uma gravação concorrente passou pela checagem
// prévia e esbarrou no índice único.
func onConflict(err error, message string) error {
	if uniqueViolation(err) {
		return apperror.Conflict(message)
	}
	return err
}

func likePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.NewReplacer("%", "", "_", "").Replace(q)
	return "%" + q + "%"
}

// parseDate interpreta YYYY-MM-DD como meia-noite UTC. Vazio devolve nil.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func utcSecond(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func nowUTC() time.Time {
	return gorm.NowFunc()
}

func int64Ptr(v int64) *int64 {
	return &v
}
