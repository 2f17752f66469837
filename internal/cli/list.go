package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) list(ctx context.Context) {
	items, err := a.vault.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Queue is empty")
		return
	}

	for _, item := range items {
		rec := item.Record
		line := fmt.Sprintf("%s  %-16s %-8s %s",
			rec.ID, rec.ActionType, rec.Status, rec.CreatedAt.Format(time.RFC3339))
		if item.Unreadable {
			line += "  [unreadable]"
		}
		if rec.ConflictReason != "" {
			line += "  conflict: " + rec.ConflictReason
		}
		if rec.ErrorMessage != "" {
			line += "  error: " + rec.ErrorMessage
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *App) receipts(ctx context.Context) {
	entries, err := a.vault.Receipts(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No receipts in the offline cache")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, string(e))
	}
}
