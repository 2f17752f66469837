package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus(ctx context.Context) string {
	n, err := a.vault.PendingCount(ctx)
	if err != nil {
		return "(?)"
	}
	return fmt.Sprintf("(%d pending)", n)
}

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "posvault maintenance console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "pv %s> ", a.getStatus(ctx))
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: status, (l)ist, receipts, resolve <id> <status> [reason],")
			fmt.Fprintln(a.out, "  remove <id>..., flags, pinset, pinclear, rotatekey, wipe, exit")

		case "status":
			a.status(ctx)
		case "l", "list":
			a.list(ctx)
		case "receipts":
			a.receipts(ctx)
		case "resolve":
			a.resolve(ctx, args)
		case "remove":
			a.remove(ctx, args)
		case "flags":
			a.flags(ctx)
		case "pinset":
			a.pinSet(ctx)
		case "pinclear":
			a.pinClear(ctx)
		case "rotatekey":
			a.rotateKey(ctx)
		case "wipe":
			a.wipe(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}

}
