package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/esmeraldas/zoosanitario/internal/app"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api"
	"github.com/esmeraldas/zoosanitario/internal/notify"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// answerer reacts to the credentials dialog of one invocation.
type answerer struct {
	w   *app.Wire
	cfg *app.Config

	in       *bufio.Reader
	inFile   *os.File
	out      io.Writer
	requests chan struct{}
	lines    chan lineResult
	triedCfg bool
}

type lineResult struct {
	text string
	err  error
}

// watchGate answers every credentials round until the returned stop is
// called.
func watchGate(ctx context.Context, w *app.Wire, cfg *app.Config, in io.Reader, out io.Writer) (stop func()) {
	a := &answerer{w: w, cfg: cfg, in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		a.inFile = f
	}

	seen, cancel := w.Gate.DialogVisible().Watch()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for visible := range seen {
			if visible {
				a.answer(ctx)
			}
		}
	}()
	return func() {
		cancel()
		<-done
		if a.requests != nil {
			close(a.requests)
		}
	}
}

func (a *answerer) answer(ctx context.Context) {
	creds, err := a.credentials(ctx)
	if err != nil {
		a.w.Logger.Debug("credentials prompt dismissed", zap.Error(err))
		a.w.Gate.Cancel()
		return
	}
	if err := a.w.Client.SubmitCredentials(ctx, creds); err != nil {
		fmt.Fprintln(a.out, notify.FromError(err))
		a.w.Gate.Cancel()
		return
	}
	fmt.Fprintln(a.out, notify.Success("credenciales de Oracle configuradas para "+creds.User))
	a.w.Gate.Configure()
}

var errDismissed = errors.New("no credentials entered")

// credentials uses the configured account for the first round only, so a
// rejected account falls back to the prompt.
func (a *answerer) credentials(ctx context.Context) (api.OracleCredentials, error) {
	if a.cfg.HasOracleCredentials() && !a.triedCfg {
		a.triedCfg = true
		return api.OracleCredentials{User: a.cfg.Oracle.User, Password: a.cfg.Oracle.Password}, nil
	}

	fmt.Fprintln(a.out, "Se requieren credenciales de Oracle para continuar.")
	fmt.Fprint(a.out, "Usuario (vacío para cancelar): ")
	user, err := a.readLine(ctx)
	if err != nil {
		return api.OracleCredentials{}, err
	}
	if user == "" {
		return api.OracleCredentials{}, errDismissed
	}

	fmt.Fprint(a.out, "Clave: ")
	password, err := a.readPassword(ctx)
	if err != nil {
		return api.OracleCredentials{}, err
	}
	if password == "" {
		return api.OracleCredentials{}, errDismissed
	}
	return api.OracleCredentials{User: user, Password: password}, nil
}

// readLine reads one line without outliving ctx. The reader goroutine
// only touches the input when asked, leaving the terminal free for
// password entry in between.
func (a *answerer) readLine(ctx context.Context) (string, error) {
	if a.requests == nil {
		a.requests = make(chan struct{})
		a.lines = make(chan lineResult, 1)
		go func() {
			for range a.requests {
				text, err := a.in.ReadString('\n')
				a.lines <- lineResult{text: strings.TrimSpace(text), err: err}
			}
		}()
	}

	select {
	case a.requests <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case r := <-a.lines:
		if r.err != nil && r.text == "" {
			return "", r.err
		}
		return r.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (a *answerer) readPassword(ctx context.Context) (string, error) {
	if a.inFile == nil || !term.IsTerminal(int(a.inFile.Fd())) {
		return a.readLine(ctx)
	}
	raw, err := term.ReadPassword(int(a.inFile.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
