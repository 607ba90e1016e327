// Package format rewrites a valid forlang program into its canonical layout.
//
// Назначение: команда fmt и проверка round-trip.
// Не делает: исправления синтаксических ошибок (это internal/fix) или IO.
// Зависимости: internal/ast, internal/lexer, internal/parser, internal/source.
package format
