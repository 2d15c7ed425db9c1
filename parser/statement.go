package parser

// CompoundOp is a compound SELECT operator.
type CompoundOp int

const (
	CompoundUnion CompoundOp = iota
	CompoundUnionAll
	CompoundIntersect
	CompoundExcept
)

// String returns the SQL spelling of the operator.
func (op CompoundOp) String() string {
	switch op {
	case CompoundUnion:
		return "UNION"
	case CompoundUnionAll:
		return "UNION ALL"
	case CompoundIntersect:
		return "INTERSECT"
	case CompoundExcept:
		return "EXCEPT"
	default:
		return "UNKNOWN"
	}
}

// ConflictAction is the OR-clause of INSERT and UPDATE statements.
type ConflictAction int

const (
	ConflictNone ConflictAction = iota
	ConflictRollback
	ConflictAbort
	ConflictFail
	ConflictIgnore
	ConflictReplace
)

// SelectStatement represents a SELECT statement. Compound operands are chained
// through the Compound field; ORDER BY and LIMIT always attach to the first
// statement of the chain.
type SelectStatement struct {
	baseNode
	With     *WithClause
	Distinct bool
	All      bool
	Columns  []ResultColumn
	From     *FromClause
	Where    *WhereClause
	GroupBy  *GroupByClause
	Having   *HavingClause
	Windows  *WindowClause
	Compound *CompoundSelect
	OrderBy  *OrderByClause
	Limit    *LimitClause
}

func (*SelectStatement) stmt() {}
func (*SelectStatement) crud() {}

// Children implements Node
func (s *SelectStatement) Children() []Node {
	var nodes []Node
	if s.With != nil {
		nodes = append(nodes, s.With)
	}
	for _, col := range s.Columns {
		nodes = append(nodes, col)
	}
	if s.From != nil {
		nodes = append(nodes, s.From)
	}
	if s.Where != nil {
		nodes = append(nodes, s.Where)
	}
	if s.GroupBy != nil {
		nodes = append(nodes, s.GroupBy)
	}
	if s.Having != nil {
		nodes = append(nodes, s.Having)
	}
	if s.Windows != nil {
		nodes = append(nodes, s.Windows)
	}
	if s.Compound != nil {
		nodes = append(nodes, s.Compound)
	}
	if s.OrderBy != nil {
		nodes = append(nodes, s.OrderBy)
	}
	if s.Limit != nil {
		nodes = append(nodes, s.Limit)
	}
	return nodes
}

// CompoundSelect is a UNION/INTERSECT/EXCEPT tail of a SELECT chain.
type CompoundSelect struct {
	baseNode
	Op     CompoundOp
	Select *SelectStatement
}

// Children implements Node
func (c *CompoundSelect) Children() []Node {
	if c.Select == nil {
		return nil
	}
	return []Node{c.Select}
}

// InsertStatement represents an INSERT statement.
type InsertStatement struct {
	baseNode
	With          *WithClause
	Or            ConflictAction
	Replace       bool // spelled REPLACE INTO
	Table         *TableReference
	Columns       []*Reference
	Values        [][]Expression
	Select        *SelectStatement
	DefaultValues bool
	Returning     *ReturningClause
}

func (*InsertStatement) stmt() {}
func (*InsertStatement) crud() {}

// Children implements Node
func (s *InsertStatement) Children() []Node {
	var nodes []Node
	if s.With != nil {
		nodes = append(nodes, s.With)
	}
	if s.Table != nil {
		nodes = append(nodes, s.Table)
	}
	for _, col := range s.Columns {
		nodes = append(nodes, col)
	}
	for _, row := range s.Values {
		for _, value := range row {
			nodes = append(nodes, value)
		}
	}
	if s.Select != nil {
		nodes = append(nodes, s.Select)
	}
	if s.Returning != nil {
		nodes = append(nodes, s.Returning)
	}
	return nodes
}

// SetClause is a single column assignment of an UPDATE statement.
type SetClause struct {
	baseNode
	Column *Reference
	Value  Expression
}

// Children implements Node
func (s *SetClause) Children() []Node {
	var nodes []Node
	if s.Column != nil {
		nodes = append(nodes, s.Column)
	}
	if s.Value != nil {
		nodes = append(nodes, s.Value)
	}
	return nodes
}

// UpdateStatement represents an UPDATE statement.
type UpdateStatement struct {
	baseNode
	With      *WithClause
	Or        ConflictAction
	Table     *TableReference
	Sets      []*SetClause
	From      *FromClause
	Where     *WhereClause
	Returning *ReturningClause
}

func (*UpdateStatement) stmt() {}
func (*UpdateStatement) crud() {}

// Children implements Node
func (s *UpdateStatement) Children() []Node {
	var nodes []Node
	if s.With != nil {
		nodes = append(nodes, s.With)
	}
	if s.Table != nil {
		nodes = append(nodes, s.Table)
	}
	for _, set := range s.Sets {
		nodes = append(nodes, set)
	}
	if s.From != nil {
		nodes = append(nodes, s.From)
	}
	if s.Where != nil {
		nodes = append(nodes, s.Where)
	}
	if s.Returning != nil {
		nodes = append(nodes, s.Returning)
	}
	return nodes
}

// DeleteStatement represents a DELETE statement.
type DeleteStatement struct {
	baseNode
	With      *WithClause
	Table     *TableReference
	Where     *WhereClause
	Returning *ReturningClause
}

func (*DeleteStatement) stmt() {}
func (*DeleteStatement) crud() {}

// Children implements Node
func (s *DeleteStatement) Children() []Node {
	var nodes []Node
	if s.With != nil {
		nodes = append(nodes, s.With)
	}
	if s.Table != nil {
		nodes = append(nodes, s.Table)
	}
	if s.Where != nil {
		nodes = append(nodes, s.Where)
	}
	if s.Returning != nil {
		nodes = append(nodes, s.Returning)
	}
	return nodes
}

// ColumnConstraintKind enumerates column constraint forms.
type ColumnConstraintKind int

const (
	ColumnPrimaryKey ColumnConstraintKind = iota
	ColumnNotNull
	ColumnUnique
	ColumnDefault
	ColumnCheck
	ColumnCollate
	ColumnReferences
)

// ColumnConstraint is one constraint attached to a column definition.
type ColumnConstraint struct {
	baseNode
	Name          string
	Kind          ColumnConstraintKind
	Autoincrement bool
	Desc          bool
	Default       Expression
	Check         Expression
	Collation     string
	References    *ForeignKeyClause
}

// Children implements Node
func (c *ColumnConstraint) Children() []Node {
	var nodes []Node
	if c.Default != nil {
		nodes = append(nodes, c.Default)
	}
	if c.Check != nil {
		nodes = append(nodes, c.Check)
	}
	if c.References != nil {
		nodes = append(nodes, c.References)
	}
	return nodes
}

// ForeignKeyClause is the REFERENCES part of a column or table constraint.
// It is carried in the AST but not resolved against the table registry.
type ForeignKeyClause struct {
	baseNode
	Table   string
	Columns []string
}

// Children implements Node
func (*ForeignKeyClause) Children() []Node {
	return nil
}

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	baseNode
	Name        string
	TypeName    string
	Constraints []*ColumnConstraint
}

// Children implements Node
func (c *ColumnDef) Children() []Node {
	var nodes []Node
	for _, constraint := range c.Constraints {
		nodes = append(nodes, constraint)
	}
	return nodes
}

// TableConstraintKind enumerates table constraint forms.
type TableConstraintKind int

const (
	TablePrimaryKey TableConstraintKind = iota
	TableUnique
	TableCheck
	TableForeignKey
)

// TableConstraint is a table-level constraint of a CREATE TABLE statement.
type TableConstraint struct {
	baseNode
	Name       string
	Kind       TableConstraintKind
	Columns    []string
	Check      Expression
	References *ForeignKeyClause
}

// Children implements Node
func (c *TableConstraint) Children() []Node {
	var nodes []Node
	if c.Check != nil {
		nodes = append(nodes, c.Check)
	}
	if c.References != nil {
		nodes = append(nodes, c.References)
	}
	return nodes
}

// CreateTableStatement represents a CREATE TABLE statement.
type CreateTableStatement struct {
	baseNode
	Name        string
	Temp        bool
	IfNotExists bool
	Columns     []*ColumnDef
	Constraints []*TableConstraint
	AsSelect    *SelectStatement
}

func (*CreateTableStatement) stmt() {}

// Children implements Node
func (s *CreateTableStatement) Children() []Node {
	var nodes []Node
	for _, col := range s.Columns {
		nodes = append(nodes, col)
	}
	for _, constraint := range s.Constraints {
		nodes = append(nodes, constraint)
	}
	if s.AsSelect != nil {
		nodes = append(nodes, s.AsSelect)
	}
	return nodes
}

// CreateIndexStatement represents a CREATE INDEX statement.
type CreateIndexStatement struct {
	baseNode
	Unique      bool
	IfNotExists bool
	Name        string
	Table       string
	Columns     []*OrderingTerm
	Where       *WhereClause
}

func (*CreateIndexStatement) stmt() {}

// Children implements Node
func (s *CreateIndexStatement) Children() []Node {
	var nodes []Node
	for _, col := range s.Columns {
		nodes = append(nodes, col)
	}
	if s.Where != nil {
		nodes = append(nodes, s.Where)
	}
	return nodes
}

// TriggerTiming is when a trigger fires relative to its event.
type TriggerTiming int

const (
	TriggerAfter TriggerTiming = iota
	TriggerBefore
	TriggerInsteadOf
)

// TriggerEvent is the statement kind a trigger reacts to.
type TriggerEvent int

const (
	TriggerOnInsert TriggerEvent = iota
	TriggerOnUpdate
	TriggerOnDelete
)

// CreateTriggerStatement represents a CREATE TRIGGER statement.
type CreateTriggerStatement struct {
	baseNode
	Name          string
	Temp          bool
	IfNotExists   bool
	Timing        TriggerTiming
	Event         TriggerEvent
	UpdateColumns []string
	Table         string
	ForEachRow    bool
	When          Expression
	Body          []Statement
}

func (*CreateTriggerStatement) stmt() {}

// Children implements Node
func (s *CreateTriggerStatement) Children() []Node {
	var nodes []Node
	if s.When != nil {
		nodes = append(nodes, s.When)
	}
	for _, body := range s.Body {
		nodes = append(nodes, body)
	}
	return nodes
}

// BadStatement is the placeholder produced when panic-mode recovery abandons a
// statement. Children parsed before the failure are preserved.
type BadStatement struct {
	baseNode
	Partial []Node
}

func (*BadStatement) stmt() {}

// Children implements Node
func (s *BadStatement) Children() []Node {
	return s.Partial
}
