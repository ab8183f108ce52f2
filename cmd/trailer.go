package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/browser"
	"marquee/internal/httputil"
	"marquee/internal/media"
	"marquee/internal/player"
)

var trailerCmd = &cobra.Command{
	Use:   "trailer <movie-id>",
	Short: "Play the trailer of a movie by its TMDB id",
	Long: `Play the trailer of a movie by its TMDB id and add it to the recently
watched list. With --json the trailer is printed instead of played.`,
	Args: cobra.ExactArgs(1),
	RunE: trailerRun,
}

func parseMovieID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid movie id %q", arg)
	}
	if err := httputil.ValidateMovieID(id); err != nil {
		return 0, err
	}
	return id, nil
}

func trailerRun(cmd *cobra.Command, args []string) error {
	id, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	selected, key, err := watchTrailer(ctx, s.mgr, id)
	if err != nil {
		return err
	}
	defer s.mgr.CloseTrailer()

	if flagJSON {
		return printTrailer(cmd.OutOrStdout(), selected, key, true)
	}

	p := player.New(cfg.Player)
	logger.Debug().Int("id", id).Str("key", key).Str("player", p.Name()).Msg("playing trailer")
	if err := player.Play(ctx, p, player.Video{Key: key, Title: selected.Title}, playbackOptions()); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// watchTrailer selects movie id, resolves its trailer and records it in the
// recently watched list. Nothing is recorded for a movie without a trailer.
func watchTrailer(ctx context.Context, mgr *browser.Manager, id int) (*media.MovieDetail, string, error) {
	mgr.LoadHistory()
	if err := mgr.SelectMovie(ctx, media.MovieSummary{ID: id}); err != nil {
		return nil, "", err
	}
	selected := mgr.Snapshot().Selected

	key, err := mgr.SelectedTrailerKey()
	if errors.Is(err, browser.ErrNoVideoAvailable) {
		return nil, "", fmt.Errorf("%s has no trailer", selected.Title)
	}
	if err != nil {
		return nil, "", err
	}

	mgr.PlayTrailer()
	return selected, key, nil
}
