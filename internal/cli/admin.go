package cli

import (
	"context"
	"fmt"
)

func (a *App) rotateKey(ctx context.Context) {
	ok, err := Confirm(a.reader,
		"Rotating the key makes every stored payload unreadable. Continue? [y/N]", a.out)
	if err != nil || !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}
	if err := a.vault.RotateKey(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "Key rotated")
}

func (a *App) wipe(ctx context.Context) {
	ok, err := Confirm(a.reader,
		"This erases the queue, cache and metadata on this device. Continue? [y/N]", a.out)
	if err != nil || !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}
	if err := a.vault.ClearAll(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "Offline data cleared")
}
