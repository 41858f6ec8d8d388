package main

import "github.com/valpere/opustran/cmd"

func main() {
	cmd.Execute()
}
