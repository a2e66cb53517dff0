package main

import (
	"TuneMart/cmd"
)

func main() {
	cmd.Execute()
}
