package parser

import "github.com/sqlfront/sqlfront/tokenizer"

// precedence is a binding strength level, loosest first. Every level binds
// tighter than the one before it.
type precedence int

const (
	precNone precedence = iota
	precOr
	precAnd
	precNot
	precEquality
	precComparison
	precBitwise
	precAdditive
	precMultiplicative
	precConcat
	precUnary
	precPostfix
)

type infixOp struct {
	prec precedence
	op   BinaryOp
}

// infixOps drives the expression parser's binding loop. Changing an operator's
// binding strength is a table edit, not a grammar rewrite. IS, IN, LIKE,
// BETWEEN and COLLATE need extra lookahead or operands and are dispatched
// separately, all at precEquality except COLLATE at precPostfix.
var infixOps = map[tokenizer.TokenType]infixOp{
	tokenizer.K_OR:          {precOr, OpOr},
	tokenizer.K_AND:         {precAnd, OpAnd},
	tokenizer.EQUAL:         {precEquality, OpEq},
	tokenizer.NOT_EQUAL:     {precEquality, OpNe},
	tokenizer.LESS_THAN:     {precComparison, OpLt},
	tokenizer.LESS_EQUAL:    {precComparison, OpLe},
	tokenizer.GREATER_THAN:  {precComparison, OpGt},
	tokenizer.GREATER_EQUAL: {precComparison, OpGe},
	tokenizer.LEFT_SHIFT:    {precBitwise, OpShiftLeft},
	tokenizer.RIGHT_SHIFT:   {precBitwise, OpShiftRight},
	tokenizer.AMPERSAND:     {precBitwise, OpBitAnd},
	tokenizer.PIPE:          {precBitwise, OpBitOr},
	tokenizer.PLUS:          {precAdditive, OpAdd},
	tokenizer.MINUS:         {precAdditive, OpSub},
	tokenizer.STAR:          {precMultiplicative, OpMul},
	tokenizer.SLASH:         {precMultiplicative, OpDiv},
	tokenizer.PERCENT:       {precMultiplicative, OpMod},
	tokenizer.CONCAT:        {precConcat, OpConcat},
}

// notFollowers are the operators NOT can negate in infix position, as in
// `a NOT IN (...)` or `a NOT BETWEEN 1 AND 2`.
var notFollowers = map[tokenizer.TokenType]bool{
	tokenizer.K_IN:      true,
	tokenizer.K_LIKE:    true,
	tokenizer.K_GLOB:    true,
	tokenizer.K_MATCH:   true,
	tokenizer.K_REGEXP:  true,
	tokenizer.K_BETWEEN: true,
}

var likeOps = map[tokenizer.TokenType]LikeOp{
	tokenizer.K_LIKE:   LikeOpLike,
	tokenizer.K_GLOB:   LikeOpGlob,
	tokenizer.K_MATCH:  LikeOpMatch,
	tokenizer.K_REGEXP: LikeOpRegexp,
}
