// Command timeutc runs the timeutc analyzer as a standalone vet tool:
//
//	go run ./tools/linters/timeutc/cmd/timeutc ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/rezkam/shoplist/tools/linters/timeutc"
)

func main() {
	singlechecker.Main(timeutc.Analyzer)
}
