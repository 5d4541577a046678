package main

import "github.com/stattler/dataloom/cmd"

func main() {
	cmd.Execute()
}
