package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/posvault/internal/models"
	"github.com/dmitrijs2005/posvault/internal/vault"
)

// resolve applies a sync outcome to one record: resolve <id> <status> [reason].
// The reason lands in conflictReason for CONFLICT and in errorMessage for
// FAILED; other statuses ignore it.
func (a *App) resolve(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: resolve <id> <status> [reason]")
		return
	}

	status := models.Status(strings.ToUpper(args[1]))
	upd := vault.StatusUpdate{Status: status}
	if len(args) > 2 {
		reason := strings.Join(args[2:], " ")
		switch status {
		case models.StatusConflict:
			upd.ConflictReason = reason
		case models.StatusFailed:
			upd.ErrorMessage = reason
		}
	}

	if err := a.vault.UpdateStatus(ctx, args[0], upd); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintf(a.out, "Record %s -> %s\n", args[0], status)
}

func (a *App) remove(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: remove <id> [id...]")
		return
	}
	if err := a.vault.Remove(ctx, args); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintf(a.out, "Removed %d record(s)\n", len(args))
}
