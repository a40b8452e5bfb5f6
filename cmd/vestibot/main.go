package main

import (
	"vestibot/cmd/vestibot/commands"
	"vestibot/pkg/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
