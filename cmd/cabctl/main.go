package main

import "cabbie/cmd/cabctl/cmd"

func main() {
	cmd.Execute()
}
