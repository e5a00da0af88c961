package main

import (
	"github.com/luma/ldds/cmd"
)

func main() {
	cmd.Execute()
}
