package main

import "github.com/devicelab-dev/screenpull/pkg/cli"

func main() {
	cli.Execute()
}
