package main

import (
	"github.com/wardwatch/wardwatch/cmd"
)

func main() {
	cmd.Execute()
}
