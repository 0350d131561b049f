package credentials

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// LocalServerFlow authorizes interactively: it listens on an ephemeral
// loopback port, sends the user's browser to Google's consent page, and
// exchanges the authorization code delivered to the redirect. It blocks until
// the user completes or denies the flow, or ctx is cancelled.
type LocalServerFlow struct {
	Log zerolog.Logger
}

// Authorize runs the interactive flow against cfg.
func (f *LocalServerFlow) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for OAuth redirect: %w", err)
	}
	defer ln.Close()

	conf := *cfg
	conf.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state := uuid.NewString()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)

	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			ch <- result{err: errors.New("authorization response state mismatch")}
		case q.Get("error") != "":
			http.Error(w, "authorization failed", http.StatusBadRequest)
			ch <- result{err: fmt.Errorf("authorization denied: %s", q.Get("error"))}
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			ch <- result{err: errors.New("authorization response missing code")}
		default:
			fmt.Fprintln(w, "Authentication complete. You can close this window.")
			ch <- result{code: q.Get("code")}
		}
	})}
	go srv.Serve(ln)
	defer srv.Close()

	f.Log.Info().Str("url", authURL).Msg("Opening browser for user authentication")
	if err := openBrowser(authURL); err != nil {
		f.Log.Warn().Err(err).Msg("could not open browser, visit the URL above manually")
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := conf.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		f.Log.Info().Msg("OAuth flow completed successfully")
		return tok, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
