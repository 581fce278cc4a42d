package cli

import (
	_ "github.com/micro/go-connect/cmd/connect/cmd/cli/dial"
	_ "github.com/micro/go-connect/cmd/connect/cmd/cli/get"
)
