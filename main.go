package main

import "db-validator/cmd"

func main() {
	cmd.Execute()
}
