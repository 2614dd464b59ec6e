// cmd/ribopred/main.go
package main

import (
	"ribopred/internal/app"
	"ribopred/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
