package player

import (
	"context"
	"os/exec"
)

// Generic implements the Player interface for players like iina and celluloid
// that accept mpv-compatible arguments.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool {
	_, err := exec.LookPath(g.name)
	return err == nil
}

func (g *Generic) Command(ctx context.Context, v Video, opts Options) (*exec.Cmd, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, g.name, mpvArgs(v, opts)...), nil
}
