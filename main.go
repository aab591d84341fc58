package main

import (
	"github.com/nobotchat/relay/cmd"
)

func main() {
	cmd.Execute()
}
