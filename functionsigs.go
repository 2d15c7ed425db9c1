package sqlfront

import "strings"

// ArgExpectation describes the type a function expects for one argument.
// The analyzer uses it to push types into bind variables appearing as
// arguments.
type ArgExpectation int

const (
	// ArgAny places no expectation on the argument.
	ArgAny ArgExpectation = iota
	// ArgInt expects an integer argument.
	ArgInt
	// ArgText expects a text argument.
	ArgText
	// ArgReal expects a real argument.
	ArgReal
	// ArgSameAsFirst expects the same type as the first argument.
	ArgSameAsFirst
)

// FunctionSignature defines the return type and argument expectations of a
// SQL function. When ReturnFromArg is true the result takes the resolved
// type of the first argument; otherwise Return applies. Args lists
// per-position expectations; calls with more arguments than listed repeat
// the last entry when Variadic is set.
type FunctionSignature struct {
	Return        ResolvedType
	ReturnFromArg bool
	Args          []ArgExpectation
	Variadic      bool
	Aggregate     bool
	Window        bool
}

var intResult = ResolvedType{Base: BaseInt}
var nullableInt = ResolvedType{Base: BaseInt, Nullable: true}
var nullableText = ResolvedType{Base: BaseText, Nullable: true}
var nullableReal = ResolvedType{Base: BaseReal, Nullable: true}

// FunctionSignatures maps upper-cased SQLite function names to their
// signatures. Aggregates double as window functions when followed by an
// OVER clause.
var FunctionSignatures = map[string]FunctionSignature{
	// Aggregates
	"COUNT":        {Return: intResult, Aggregate: true, Window: true, Args: []ArgExpectation{ArgAny}},
	"SUM":          {ReturnFromArg: true, Aggregate: true, Window: true, Args: []ArgExpectation{ArgAny}},
	"TOTAL":        {Return: nullableReal, Aggregate: true, Window: true, Args: []ArgExpectation{ArgAny}},
	"AVG":          {Return: nullableReal, Aggregate: true, Window: true, Args: []ArgExpectation{ArgAny}},
	"MIN":          {ReturnFromArg: true, Aggregate: true, Window: true, Args: []ArgExpectation{ArgAny, ArgSameAsFirst}, Variadic: true},
	"MAX":          {ReturnFromArg: true, Aggregate: true, Window: true, Args: []ArgExpectation{ArgAny, ArgSameAsFirst}, Variadic: true},
	"GROUP_CONCAT": {Return: nullableText, Aggregate: true, Window: true, Args: []ArgExpectation{ArgAny, ArgText}},

	// Scalar functions
	"ABS":       {ReturnFromArg: true, Args: []ArgExpectation{ArgAny}},
	"LENGTH":    {Return: nullableInt, Args: []ArgExpectation{ArgText}},
	"LOWER":     {Return: nullableText, Args: []ArgExpectation{ArgText}},
	"UPPER":     {Return: nullableText, Args: []ArgExpectation{ArgText}},
	"TRIM":      {Return: nullableText, Args: []ArgExpectation{ArgText, ArgText}},
	"LTRIM":     {Return: nullableText, Args: []ArgExpectation{ArgText, ArgText}},
	"RTRIM":     {Return: nullableText, Args: []ArgExpectation{ArgText, ArgText}},
	"SUBSTR":    {Return: nullableText, Args: []ArgExpectation{ArgText, ArgInt, ArgInt}},
	"SUBSTRING": {Return: nullableText, Args: []ArgExpectation{ArgText, ArgInt, ArgInt}},
	"REPLACE":   {Return: nullableText, Args: []ArgExpectation{ArgText, ArgText, ArgText}},
	"INSTR":     {Return: nullableInt, Args: []ArgExpectation{ArgText, ArgText}},
	"HEX":       {Return: nullableText, Args: []ArgExpectation{ArgAny}},
	"QUOTE":     {Return: nullableText, Args: []ArgExpectation{ArgAny}},
	"ROUND":     {Return: nullableReal, Args: []ArgExpectation{ArgReal, ArgInt}},
	"RANDOM":    {Return: intResult},
	"COALESCE":  {ReturnFromArg: true, Args: []ArgExpectation{ArgAny, ArgSameAsFirst}, Variadic: true},
	"IFNULL":    {ReturnFromArg: true, Args: []ArgExpectation{ArgAny, ArgSameAsFirst}},
	"NULLIF":    {ReturnFromArg: true, Args: []ArgExpectation{ArgAny, ArgSameAsFirst}},
	"IIF":       {Return: ResolvedType{Base: BaseUnknown, Nullable: true}, Args: []ArgExpectation{ArgAny, ArgAny, ArgAny}},
	"TYPEOF":    {Return: ResolvedType{Base: BaseText}, Args: []ArgExpectation{ArgAny}},
	"UNICODE":   {Return: nullableInt, Args: []ArgExpectation{ArgText}},
	"CHAR":      {Return: ResolvedType{Base: BaseText}, Args: []ArgExpectation{ArgInt}, Variadic: true},
	"LIKELY":    {ReturnFromArg: true, Args: []ArgExpectation{ArgAny}},
	"UNLIKELY":  {ReturnFromArg: true, Args: []ArgExpectation{ArgAny}},

	// Date and time functions; results carry the datetime hint when the
	// value is a point in time.
	"DATE":      {Return: ResolvedType{Base: BaseText, Nullable: true, Hint: HintDateTime}, Args: []ArgExpectation{ArgAny, ArgText}, Variadic: true},
	"TIME":      {Return: ResolvedType{Base: BaseText, Nullable: true, Hint: HintDateTime}, Args: []ArgExpectation{ArgAny, ArgText}, Variadic: true},
	"DATETIME":  {Return: ResolvedType{Base: BaseText, Nullable: true, Hint: HintDateTime}, Args: []ArgExpectation{ArgAny, ArgText}, Variadic: true},
	"JULIANDAY": {Return: nullableReal, Args: []ArgExpectation{ArgAny, ArgText}, Variadic: true},
	"UNIXEPOCH": {Return: ResolvedType{Base: BaseInt, Nullable: true, Hint: HintDateTime}, Args: []ArgExpectation{ArgAny, ArgText}, Variadic: true},
	"STRFTIME":  {Return: nullableText, Args: []ArgExpectation{ArgText, ArgAny}, Variadic: true},

	// Window functions
	"ROW_NUMBER":   {Return: intResult, Window: true},
	"RANK":         {Return: intResult, Window: true},
	"DENSE_RANK":   {Return: intResult, Window: true},
	"PERCENT_RANK": {Return: ResolvedType{Base: BaseReal}, Window: true},
	"CUME_DIST":    {Return: ResolvedType{Base: BaseReal}, Window: true},
	"NTILE":        {Return: intResult, Window: true, Args: []ArgExpectation{ArgInt}},
	"LAG":          {ReturnFromArg: true, Window: true, Args: []ArgExpectation{ArgAny, ArgInt, ArgSameAsFirst}},
	"LEAD":         {ReturnFromArg: true, Window: true, Args: []ArgExpectation{ArgAny, ArgInt, ArgSameAsFirst}},
	"FIRST_VALUE":  {ReturnFromArg: true, Window: true, Args: []ArgExpectation{ArgAny}},
	"LAST_VALUE":   {ReturnFromArg: true, Window: true, Args: []ArgExpectation{ArgAny}},
	"NTH_VALUE":    {ReturnFromArg: true, Window: true, Args: []ArgExpectation{ArgAny, ArgInt}},
}

// LookupFunction returns the signature for a function name, matched
// case-insensitively.
func LookupFunction(name string) (FunctionSignature, bool) {
	sig, ok := FunctionSignatures[strings.ToUpper(name)]
	return sig, ok
}

// ArgExpectationAt returns the expectation for the argument at position i,
// repeating the last listed expectation for variadic functions.
func (s FunctionSignature) ArgExpectationAt(i int) ArgExpectation {
	if i < len(s.Args) {
		return s.Args[i]
	}
	if s.Variadic && len(s.Args) > 0 {
		return s.Args[len(s.Args)-1]
	}
	return ArgAny
}
