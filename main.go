package main

import "github.com/theirongolddev/envcast/cmd"

func main() {
	cmd.Execute()
}
