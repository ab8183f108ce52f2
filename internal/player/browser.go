package player

import (
	"context"
	"os/exec"
	"runtime"
)

// Browser opens the YouTube embed page in the system browser.
type Browser struct {
	goos string // overridden in tests
}

func (b *Browser) Name() string { return "browser" }

func (b *Browser) platform() string {
	if b.goos != "" {
		return b.goos
	}
	return runtime.GOOS
}

// opener returns the command and leading args that open a URL.
func (b *Browser) opener() (string, []string) {
	switch b.platform() {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}

func (b *Browser) Available() bool {
	name, _ := b.opener()
	_, err := exec.LookPath(name)
	return err == nil
}

// Command ignores the window size; the browser decides the layout.
func (b *Browser) Command(ctx context.Context, v Video, opts Options) (*exec.Cmd, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	name, args := b.opener()
	args = append(args, EmbedURL(v.Key, opts))
	return exec.CommandContext(ctx, name, args...), nil
}
