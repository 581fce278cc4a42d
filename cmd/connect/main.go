package main

import (
	"github.com/micro/go-connect/cmd/connect/cmd"

	// register commands
	_ "github.com/micro/go-connect/cmd/connect/cmd/cli"
)

func main() {
	cmd.Run()
}
