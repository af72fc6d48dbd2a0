package main

import "github.com/geodateam/team-presence/cmd"

func main() {
	cmd.Execute()
}
