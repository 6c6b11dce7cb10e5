package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"clienthub.app/hub/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
