// Package query собирает параметризованные SQL-запросы из необязательных фильтров.
//
// Builder накапливает пары (предикат, параметры) и всегда возвращает SQL с
// плейсхолдерами "?": пользовательские значения никогда не попадают в текст запроса.
// Имена колонок и базовые запросы задаются только константами в коде.
package query

import (
	"strings"

	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Builder накапливает части запроса SELECT.
type Builder struct {
	base       string
	predicates []string
	args       []any
	groupBy    []string
	orderBy    []string
}

// Select начинает новый запрос с базовой части вида "SELECT ... FROM table".
func Select(base string) *Builder {
	return &Builder{base: base}
}

// Where добавляет предикат, объединяемый с остальными через AND.
// Количество "?" в predicate должно совпадать с количеством args.
func (b *Builder) Where(predicate string, args ...any) *Builder {
	b.predicates = append(b.predicates, predicate)
	b.args = append(b.args, args...)
	return b
}

// GroupBy задаёт выражения группировки.
func (b *Builder) GroupBy(exprs ...string) *Builder {
	b.groupBy = append(b.groupBy, exprs...)
	return b
}

// OrderBy задаёт порядок сортировки.
func (b *Builder) OrderBy(clauses ...string) *Builder {
	b.orderBy = append(b.orderBy, clauses...)
	return b
}

// Build возвращает готовый SQL и параметры в порядке плейсхолдеров.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString(b.base)
	if len(b.predicates) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.predicates, " AND "))
	}
	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	args := make([]any, len(b.args))
	copy(args, b.args)
	return sb.String(), args
}

// Columns сопоставляет поля фильтра с колонками конкретной таблицы.
type Columns struct {
	Project string
	Date    string
}

// ApplyFilter добавляет в запрос только заданные условия фильтра.
//
// Проект игнорируется, если он пуст или равен models.AllProjects.
// Границы дат включительные и сравниваются как строки YYYY-MM-DD.
func ApplyFilter(b *Builder, f models.Filter, cols Columns) *Builder {
	if f.HasProject() {
		b.Where(cols.Project+" = ?", f.Project)
	}
	if f.FromDate != "" {
		b.Where(cols.Date+" >= ?", f.FromDate)
	}
	if f.ToDate != "" {
		b.Where(cols.Date+" <= ?", f.ToDate)
	}
	return b
}
