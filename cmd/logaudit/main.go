package main

import (
	"log-audit/internal/cmd"
)

func main() {
	cmd.Execute()
}
