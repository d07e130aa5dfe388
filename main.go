package main

import "github.com/campbelljlowman/mopify-api/cmd"

func main() {
	cmd.Execute()
}
