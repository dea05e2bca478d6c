package main

import (
	"inkfeed/internal/cmd"
)

func main() {
	cmd.Run()
}
