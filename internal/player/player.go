// Package player launches external players for trailers.
// All player invocations use exec.CommandContext with explicit argument
// slices; video keys are validated before they reach an argument list.
package player

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"

	"marquee/internal/httputil"
)

// Options mirror the embed options of a web video widget.
type Options struct {
	Autoplay bool
	Controls bool
	Width    int
	Height   int
}

// DefaultOptions plays immediately without on-screen controls.
func DefaultOptions(width, height int) Options {
	return Options{Autoplay: true, Controls: false, Width: width, Height: height}
}

// Video identifies what to play.
type Video struct {
	Key   string // External video key (YouTube)
	Title string // Window title
}

// Player is the interface for trailer player implementations.
type Player interface {
	// Command builds the process that plays v. The caller runs it.
	Command(ctx context.Context, v Video, opts Options) (*exec.Cmd, error)

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	case "browser":
		return &Browser{}
	default:
		return &MPV{} // Default to mpv
	}
}

// WatchURL returns the page URL for a YouTube video key.
func WatchURL(key string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
}

// EmbedURL returns the embeddable player URL for a YouTube video key.
func EmbedURL(key string, opts Options) string {
	q := url.Values{}
	q.Set("autoplay", boolParam(opts.Autoplay))
	q.Set("controls", boolParam(opts.Controls))
	return "https://www.youtube.com/embed/" + url.PathEscape(key) + "?" + q.Encode()
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func validate(v Video) error {
	if err := httputil.ValidateVideoKey(v.Key); err != nil {
		return fmt.Errorf("refusing to play: %w", err)
	}
	return nil
}

// Play builds and runs the player attached to the current terminal and
// returns once it exits. Players that exit non-zero on a user quit are not
// treated as failures.
func Play(ctx context.Context, p Player, v Video, opts Options) error {
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH", p.Name())
	}
	cmd, err := p.Command(ctx, v, opts)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", p.Name(), err)
	}
	return nil
}
