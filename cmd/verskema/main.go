package main

import "github.com/reoring/verskema/cmd/verskema/cmd"

func main() {
	cmd.Execute()
}
