// Package fuzztests houses Go fuzz harnesses for the document frontend and
// the lowering pipeline (bytes -> TOML tables -> element tree -> passes).
// They guard against panics, hangs and broken trees on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через driver.CompileSource и
// парсер выражений, проверяя инварианты дерева после lowering.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/driver, internal/frontend, internal/testkit.
package fuzztests
