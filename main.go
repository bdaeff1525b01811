package main

import "github.com/josephlewis42/nestsh/cmd"

func main() {
	cmd.Execute()
}
