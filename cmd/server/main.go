package main

import "github.com/tickethub/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
