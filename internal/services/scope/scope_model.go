package scope

import "fmt"

type scopeKind int

const (
	kindUnrestricted scopeKind = iota
	kindDenyAll
	kindColumnEquals
	kindOwnerOrCode
)

// RowScope is a row-level access predicate attached to queries over
// partner-owned tables. It renders to a SQL fragment with positional
// placeholders so callers can splice it into their own WHERE clauses.
type RowScope struct {
	kind scopeKind

	column string
	value  any

	ownerColumn string
	ownerValue  any
}

// Unrestricted matches every row. Only the GOD role gets this.
func Unrestricted() RowScope {
	return RowScope{kind: kindUnrestricted}
}

// DenyAll matches no rows. Used when an ADMIN has no resolvable supervisor
// code; access fails closed rather than widening to everything.
func DenyAll() RowScope {
	return RowScope{kind: kindDenyAll}
}

// OwnerScope restricts rows to a single owner column value.
func OwnerScope(column, userID string) RowScope {
	return RowScope{kind: kindColumnEquals, column: column, value: userID}
}

// OwnerOrSupervisorScope matches rows the caller owns plus rows carrying
// their supervisor code. This is the ADMIN view: their own records and the
// records of every partner grouped under them.
func OwnerOrSupervisorScope(cols Columns, userID, code string) RowScope {
	return RowScope{
		kind:        kindOwnerOrCode,
		column:      cols.Supervisor,
		value:       code,
		ownerColumn: cols.Owner,
		ownerValue:  userID,
	}
}

// Predicate renders the scope as a SQL fragment whose placeholders start at
// $start, plus the args to bind. An unrestricted scope renders to an empty
// fragment and no args.
func (s RowScope) Predicate(start int) (string, []any) {
	switch s.kind {
	case kindDenyAll:
		return "1=0", nil
	case kindColumnEquals:
		return fmt.Sprintf("%s = $%d", s.column, start), []any{s.value}
	case kindOwnerOrCode:
		return fmt.Sprintf("(%s = $%d OR %s = $%d)", s.ownerColumn, start, s.column, start+1),
			[]any{s.ownerValue, s.value}
	default:
		return "", nil
	}
}

// Columns names the owner and supervisor columns of the table being scoped.
// Tables in this schema share the same names, but the pair stays explicit so
// joins can qualify them.
type Columns struct {
	Owner      string
	Supervisor string
}

// DefaultColumns matches the unqualified column names used by the leads,
// pages and activity tables.
var DefaultColumns = Columns{Owner: "owner_id", Supervisor: "supervisor_code"}
