package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/posvault/internal/config"
	"github.com/dmitrijs2005/posvault/internal/logging"
	"github.com/dmitrijs2005/posvault/internal/vault"

	_ "modernc.org/sqlite"
)

// maxPinAttempts bounds how many wrong PINs are tolerated before the
// program exits.
const maxPinAttempts = 3

// App is the interactive terminal frontend over the offline vault. It is a
// maintenance tool for operators: inspecting the queue, resolving records on
// behalf of the sync process, managing the PIN gate and wiping the device.
type App struct {
	config   *config.Config
	vault    *vault.Vault
	reader   *bufio.Reader
	out      io.Writer
	unlocked bool
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	v, err := vault.Open(ctx, c, log)
	if err != nil {
		return nil, err
	}
	return &App{config: c, vault: v, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.vault.Close()

	if !a.unlock(ctx) {
		return
	}
	a.Root(ctx)
}
