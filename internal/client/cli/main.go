package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Run(ctx context.Context) {

	fmt.Fprintln(a.out, "DropVault CLI (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "dropvault > ")

		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}

		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: share, fetch, ping, exit")

		case "share":
			a.Share(ctx)

		case "fetch":
			a.Fetch(ctx)

		case "ping":
			if err := a.vaults.Ping(ctx); err != nil {
				fmt.Fprintf(a.out, "Server unreachable: %v\n", err)
			} else {
				fmt.Fprintln(a.out, "Server is up")
			}

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
		}
	}
}
