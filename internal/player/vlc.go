package player

import (
	"context"
	"fmt"
	"os/exec"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

func (v *VLC) Command(ctx context.Context, vid Video, opts Options) (*exec.Cmd, error) {
	if err := validate(vid); err != nil {
		return nil, err
	}

	args := []string{
		WatchURL(vid.Key),
		"--meta-title", vid.Title,
		"--play-and-exit",
	}
	if !opts.Controls {
		args = append(args, "--qt-minimal-view")
	}
	if !opts.Autoplay {
		args = append(args, "--start-paused")
	}
	if opts.Width > 0 && opts.Height > 0 {
		args = append(args, fmt.Sprintf("--width=%d", opts.Width), fmt.Sprintf("--height=%d", opts.Height))
	}

	return exec.CommandContext(ctx, "vlc", args...), nil
}
