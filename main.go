package main

import "github.com/mezquit/mezquit/cmd"

func main() {
	cmd.Execute()
}
