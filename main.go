package main

import "github.com/smartaero/storefront/cmd"

func main() {
	cmd.Start()
}
