package main

import "github.com/procureops/procurement-portal/cmd"

func main() {
	cmd.Execute()
}
