package main

import (
	"github.com/openxc7/fasmout/cmd"
)

func main() {
	cmd.Execute()
}
