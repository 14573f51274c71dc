package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/llehouerou/melodia/internal/config"
	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/lastfm"
)

type LastfmLoginParams struct {
	DB     string `long:"db" optional:"true" help:"Database path (defaults to the configured one)"`
	Logout bool   `long:"logout" optional:"true" help:"Forget the linked account"`
}

// Authenticator runs the Last.fm desktop auth flow. *lastfm.Client
// implements it.
type Authenticator interface {
	GetToken() (string, error)
	AuthURL(token string) string
	GetSession(token string) (username, sessionKey string, err error)
}

func LastfmLoginCmd() *cobra.Command {
	return boa.CmdT[LastfmLoginParams]{
		Use:   "lastfm-login",
		Short: "Link a Last.fm account for scrobbling",
		RunFunc: func(params *LastfmLoginParams, cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "melodia-catalog: %s: %v\n", errmsg.OpConfigLoad, err)
				os.Exit(1)
			}
			if !cfg.HasLastfmConfig() && !params.Logout {
				fmt.Fprintln(os.Stderr, "melodia-catalog: set [lastfm] api_key and api_secret in config.toml first")
				os.Exit(1)
			}
			client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
			if code := RunLastfmLogin(cmd.Context(), params, client, os.Stdin, os.Stdout, os.Stderr); code != 0 {
				os.Exit(code)
			}
		},
	}.ToCobra()
}

func RunLastfmLogin(ctx context.Context, params *LastfmLoginParams, auth Authenticator, stdin io.Reader, stdout, stderr io.Writer) int {
	mgr, _, err := openCatalog(params.DB)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
		return 1
	}
	defer mgr.Close()

	if params.Logout {
		if err := mgr.DeleteLastfmSession(); err != nil {
			fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "last.fm account unlinked")
		return 0
	}

	token, err := auth.GetToken()
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %s\n", errmsg.Format(errmsg.OpLastfmLogin, err))
		return 1
	}
	fmt.Fprintf(stdout, "Open this URL and allow access:\n\n  %s\n\nThen press Enter.\n", auth.AuthURL(token))

	if err := waitForEnter(ctx, stdin); err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
		return 1
	}

	username, key, err := auth.GetSession(token)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %s\n", errmsg.Format(errmsg.OpLastfmLogin, err))
		return 1
	}
	if err := mgr.SaveLastfmSession(username, key); err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: save session: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "linked last.fm account %s\n", username)
	return 0
}

func waitForEnter(ctx context.Context, r io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = nil
		}
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
