// Package ast holds the arena-allocated syntax tree of a forlang program.
//
// Node kinds map onto the grammar as follows:
//
//	File        programa / instrucciones
//	Item(Loop)  bucle, with inline InitClause, CondClause and UpdateClause
//	StmtBlock   sentencia (the loop body)
//	StmtOutput  salida
//	StmtBreak   terminar
//
// All IDs are 1-based; the zero value of every ID type means "absent".
package ast
