package main

import (
	"github.com/pocketarcade/coinledger/internal/cli"
)

func main() {
	cli.Execute()
}
