package main

import "github.com/andrescamacho/factory-planner/internal/adapters/cli"

func main() {
	cli.Execute()
}
