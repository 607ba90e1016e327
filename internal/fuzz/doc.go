// Package fuzztests houses Go fuzz harnesses for the forlang front end and
// interpreter (source -> lexer -> parser -> vm). They guard against panics,
// hangs and runaway allocation on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер
// и исполнитель с ограничением числа итераций.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/ast, internal/vm, internal/testkit.
package fuzztests
