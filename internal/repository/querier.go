package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// ListOptions carries the generic search, ordering and paging parameters of list endpoints.
// Page is 1-based; a zero Page or PageSize selects the defaults and PageSize is
// capped at maxPageSize.
type ListOptions struct {
	Search   string
	Ordering string
	Page     int
	PageSize int
}

type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) eq(column string, val any) {
	w.args = append(w.args, val)
	w.clauses = append(w.clauses, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *whereBuilder) cond(format string, val any) {
	w.args = append(w.args, val)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// search adds a case-insensitive substring match over any of columns.
// Wildcards in term match literally.
func (w *whereBuilder) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	w.args = append(w.args, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
	placeholder := fmt.Sprintf("$%d", len(w.args))
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, col, placeholder)
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(w.clauses, " AND ")
}

// orderBy translates "field" or "-field" into an ORDER BY expression using the
// allowed field to column map. Unknown fields fall back to the default order.
func orderBy(ordering string, allowed map[string]string, fallback string) string {
	ordering = strings.TrimSpace(ordering)
	desc := strings.HasPrefix(ordering, "-")
	column, ok := allowed[strings.TrimPrefix(ordering, "-")]
	if !ok {
		return fallback
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// pageClause turns a 1-based page and page size into LIMIT/OFFSET.
func pageClause(opts ListOptions) string {
	size := opts.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", size, (page-1)*size)
}
