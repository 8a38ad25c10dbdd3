package main

import "flowinvoice/internal/cli"

func main() {
	cli.Execute()
}
