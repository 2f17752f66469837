package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/posvault/internal/vault"
)

func (a *App) status(ctx context.Context) {
	deviceID, err := a.vault.DeviceID(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	stats, err := a.vault.Stats(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	pending, err := a.vault.PendingCount(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	pinRequired, err := a.vault.IsPinRequired(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	fmt.Fprintf(a.out, "Device ID:    %s\n", deviceID)
	fmt.Fprintf(a.out, "Queue:        %d/%d items, %d/%d bytes\n",
		stats.Count, stats.MaxItems, stats.Bytes, stats.MaxBytes)
	fmt.Fprintf(a.out, "Pending:      %d\n", pending)
	fmt.Fprintf(a.out, "PIN required: %v\n", pinRequired)
}

func (a *App) flags(ctx context.Context) {
	for _, f := range []vault.Flag{vault.FlagLastSyncAt, vault.FlagSyncBlocked, vault.FlagOfflineSince} {
		val, err := a.vault.GetFlag(ctx, f)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return
		}
		if val == nil {
			fmt.Fprintf(a.out, "%-14s (unset)\n", f)
		} else {
			fmt.Fprintf(a.out, "%-14s %s\n", f, val)
		}
	}
}
