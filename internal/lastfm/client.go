// Package lastfm reports played tracks to Last.fm.
package lastfm

import (
	"errors"
	"fmt"
	"time"

	"github.com/shkh/lastfm-go/lastfm"
)

// ErrNotAuthenticated is returned when an operation requires a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Play is one track play as Last.fm sees it.
type Play struct {
	Artist    string
	Track     string
	Album     string
	Duration  time.Duration
	Timestamp time.Time // when playback started
}

// Client wraps the Last.fm API.
type Client struct {
	api        *lastfm.Api
	apiKey     string
	sessionKey string
}

func New(apiKey, apiSecret string) *Client {
	return &Client{
		api:    lastfm.New(apiKey, apiSecret),
		apiKey: apiKey,
	}
}

// SetSessionKey sets the key obtained from GetSession.
func (c *Client) SetSessionKey(key string) {
	c.sessionKey = key
	c.api.SetSession(key)
}

func (c *Client) IsAuthenticated() bool {
	return c.sessionKey != ""
}

// GetToken requests a token for the desktop auth flow.
func (c *Client) GetToken() (string, error) {
	token, err := c.api.GetToken()
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// AuthURL is where the user approves token.
func (c *Client) AuthURL(token string) string {
	return fmt.Sprintf("https://www.last.fm/api/auth/?api_key=%s&token=%s", c.apiKey, token)
}

// GetSession exchanges an approved token for a session key. The username
// is "unknown" when the profile lookup fails after a successful exchange.
func (c *Client) GetSession(token string) (username, sessionKey string, err error) {
	if err := c.api.LoginWithToken(token); err != nil {
		return "", "", fmt.Errorf("get session: %w", err)
	}
	c.sessionKey = c.api.GetSessionKey()

	info, err := c.api.User.GetInfo(nil)
	if err != nil {
		return "unknown", c.sessionKey, nil //nolint:nilerr // username is optional
	}
	return info.Name, c.sessionKey, nil
}

func (c *Client) UpdateNowPlaying(p Play) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if _, err := c.api.Track.UpdateNowPlaying(params(p, false)); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

func (c *Client) Scrobble(p Play) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if _, err := c.api.Track.Scrobble(params(p, true)); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}

func params(p Play, withTimestamp bool) lastfm.P {
	out := lastfm.P{
		"artist": p.Artist,
		"track":  p.Track,
	}
	if withTimestamp {
		out["timestamp"] = p.Timestamp.Unix()
	}
	if p.Album != "" {
		out["album"] = p.Album
	}
	if p.Duration > 0 {
		out["duration"] = int(p.Duration.Seconds())
	}
	return out
}
