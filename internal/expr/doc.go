// Package expr implements the condition language used to gate display entries.
//
// A condition is a flat boolean expression over comparisons:
//
//	%player_health% < 5
//	%luckperms_primary_group% == admin OR %luckperms_primary_group% == mod
//	%player_world% == world AND %player_level% >= 10
//
// Grammar (no parentheses, AND binds loosest):
//
//	condition  := disjunct (" AND " disjunct)*
//	disjunct   := comparison (" OR " comparison)*
//	comparison := operand op operand
//	op         := "==" | "!=" | ">" | "<" | ">=" | "<="
//
// Operands are literal text that may contain %token% placeholders. Parsing
// happens before substitution, so resolved attribute values are always data
// and never change the shape of an expression.
//
// When both substituted operands parse as numbers the comparison is numeric.
// Otherwise == and != compare with Unicode case folding and the ordering
// operators are false.
//
// Evaluation fails closed: a malformed condition is false, never an error.
// The empty condition is true.
package expr
