package main

import "coldsign-core/cmd/coldsign-cli/cmd"

func main() {
	cmd.Execute()
}
