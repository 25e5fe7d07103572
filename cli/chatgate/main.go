package main

import (
	"os"

	chatgatecmder "github.com/papercomputeco/chatgate/cmd/chatgate"
)

func main() {
	cmd := chatgatecmder.NewChatgateCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
