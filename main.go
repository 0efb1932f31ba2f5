package main

import "github.com/autotracker/tracker-admin/cmd"

func main() {
	cmd.Execute()
}
