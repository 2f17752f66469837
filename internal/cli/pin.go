package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/posvault/internal/common"
)

// unlock enforces the PIN gate on startup. When no PIN is configured it
// succeeds immediately; otherwise the user gets maxPinAttempts tries.
func (a *App) unlock(ctx context.Context) bool {
	required, err := a.vault.IsPinRequired(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return false
	}
	if !required {
		a.unlocked = true
		return true
	}

	for i := 0; i < maxPinAttempts; i++ {
		pin, err := GetPin(a.out, "Enter PIN: ")
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return false
		}

		ok, err := a.vault.VerifyPin(ctx, string(pin))
		common.WipeByteArray(pin)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return false
		}
		if ok {
			a.unlocked = true
			return true
		}
		fmt.Fprintln(a.out, "Wrong PIN")
	}

	fmt.Fprintln(a.out, "Too many attempts")
	return false
}

func (a *App) pinSet(ctx context.Context) {
	pin, err := GetPin(a.out, "New PIN: ")
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	defer common.WipeByteArray(pin)

	confirm, err := GetPin(a.out, "Repeat PIN: ")
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	defer common.WipeByteArray(confirm)

	if string(pin) != string(confirm) {
		fmt.Fprintln(a.out, "PINs do not match")
		return
	}

	if err := a.vault.SetPin(ctx, string(pin)); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "PIN set")
}

func (a *App) pinClear(ctx context.Context) {
	if err := a.vault.ClearPin(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "PIN cleared")
}
