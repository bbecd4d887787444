package main

import "github.com/mpapenbr/racelog-analytics/cmd"

func main() {
	cmd.Execute()
}
