package player

import (
	"context"
	"fmt"
	"os/exec"
)

// MPV implements the Player interface for mpv. mpv resolves YouTube pages
// through its yt-dlp hook.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath("mpv")
	return err == nil
}

func (m *MPV) Command(ctx context.Context, v Video, opts Options) (*exec.Cmd, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, "mpv", mpvArgs(v, opts)...), nil
}

// mpvArgs builds mpv-compatible arguments; iina and celluloid accept the same flags.
func mpvArgs(v Video, opts Options) []string {
	args := []string{
		WatchURL(v.Key),
		"--force-media-title=" + v.Title,
		"--really-quiet",
	}
	if !opts.Controls {
		args = append(args, "--no-osc")
	}
	if !opts.Autoplay {
		args = append(args, "--pause")
	}
	if opts.Width > 0 && opts.Height > 0 {
		args = append(args, fmt.Sprintf("--geometry=%dx%d", opts.Width, opts.Height))
	}
	return args
}
