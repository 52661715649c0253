package main

import "github.com/thep200/github-trending/cmd"

func main() {
	cmd.Execute()
}
