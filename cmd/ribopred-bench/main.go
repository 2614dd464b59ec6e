// cmd/ribopred-bench/main.go
package main

import (
	"ribopred/internal/appshell"
	"ribopred/internal/benchapp"
)

func main() {
	appshell.Main(benchapp.RunContext)
}
