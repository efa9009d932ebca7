package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Patch collects the columns of a partial UPDATE. Column names are quoted;
// values are always bound as parameters.
type Patch struct {
	sets []string
	args []any
}

func (p *Patch) Set(column string, value any) {
	p.args = append(p.args, value)
	p.sets = append(p.sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(column), len(p.args)))
}

// SetIf adds the column only when ok is true.
func (p *Patch) SetIf(ok bool, column string, value any) {
	if ok {
		p.Set(column, value)
	}
}

func (p *Patch) Empty() bool { return len(p.sets) == 0 }

// Update renders "UPDATE table SET ..., updated_at = NOW() WHERE id = $n RETURNING returning".
func (p *Patch) Update(table string, id int64, returning string) (string, []any) {
	args := append(append([]any{}, p.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d",
		pq.QuoteIdentifier(table), strings.Join(p.sets, ", "), len(args))
	if returning != "" {
		query += " RETURNING " + returning
	}
	return query, args
}
