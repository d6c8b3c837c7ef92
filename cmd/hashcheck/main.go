// cmd/hashcheck/main.go
package main

import (
	"hashcheck/internal/app"
	"hashcheck/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
