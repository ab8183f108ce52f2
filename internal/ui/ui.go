// Package ui is the interactive terminal front end. It renders snapshots of
// the browser state and turns key presses into browser operations. Fetches
// run as tea.Cmds so the screen stays responsive, and trailers play in an
// external player that takes over the terminal until it exits.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"marquee/internal/browser"
	"marquee/internal/media"
	"marquee/internal/player"
)

// Options configures the terminal UI.
type Options struct {
	InitialQuery string         // searched right after the discover listing loads
	ImageHost    string         // e.g., "image.tmdb.org"
	Playback     player.Options // passed to the player for every trailer
	Logger       zerolog.Logger
}

type listLoadedMsg struct{ err error }

type movieLoadedMsg struct{ err error }

type trailerClosedMsg struct{ err error }

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	mgr    *browser.Manager
	player player.Player
	opts   Options
	log    zerolog.Logger

	state   browser.State
	cursor  int // highlighted card within the visible carousel window
	loading int // outstanding fetches
	status  string
	err     error

	searching bool
	input     textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap

	width  int
	height int
}

// New creates the model. mgr must not have been initialized yet; Init does
// that.
func New(ctx context.Context, mgr *browser.Manager, p player.Player, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		ctx:     ctx,
		mgr:     mgr,
		player:  p,
		opts:    opts,
		log:     opts.Logger,
		input:   ti,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   80,
		height:  24,
		loading: 1, // Init starts the first listing
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, mgr *browser.Manager, p player.Player, opts Options) error {
	prog := tea.NewProgram(New(ctx, mgr, p, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initialize())
}

func (m Model) initialize() tea.Cmd {
	ctx, mgr, query := m.ctx, m.mgr, m.opts.InitialQuery
	return func() tea.Msg {
		if err := mgr.Initialize(ctx); err != nil {
			return listLoadedMsg{err: err}
		}
		if query == "" {
			return listLoadedMsg{}
		}
		return listLoadedMsg{err: mgr.Search(ctx, query)}
	}
}

func (m *Model) search(query string) tea.Cmd {
	m.loading++
	m.cursor = 0
	ctx, mgr := m.ctx, m.mgr
	return func() tea.Msg {
		return listLoadedMsg{err: mgr.Search(ctx, query)}
	}
}

func (m *Model) selectMovie(s media.MovieSummary) tea.Cmd {
	m.loading++
	ctx, mgr := m.ctx, m.mgr
	return func() tea.Msg {
		return movieLoadedMsg{err: mgr.SelectMovie(ctx, s)}
	}
}

// playTrailer records the view and hands the terminal to the player.
func (m *Model) playTrailer() tea.Cmd {
	key, err := m.mgr.SelectedTrailerKey()
	if err != nil {
		m.status = "No trailer available"
		return nil
	}
	var title string
	if m.state.Selected != nil {
		title = m.state.Selected.Title
	}

	cmd, err := m.player.Command(m.ctx, player.Video{Key: key, Title: title}, m.opts.Playback)
	if err != nil {
		m.err = err
		return nil
	}
	if !m.mgr.PlayTrailer() {
		return nil
	}
	m.refresh()
	m.log.Info().Str("player", m.player.Name()).Str("key", key).Str("title", title).Msg("playing trailer")

	// The browser hands the URL off and returns at once; the trailer stays
	// open until closed by hand.
	if m.player.Name() == "browser" {
		return func() tea.Msg {
			if err := cmd.Run(); err != nil {
				return trailerClosedMsg{err: err}
			}
			return nil
		}
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return trailerClosedMsg{err: err}
	})
}

// refresh pulls a fresh snapshot from the manager.
func (m *Model) refresh() {
	m.state = m.mgr.Snapshot()
	m.keys.Play.SetEnabled(m.mgr.CanPlayTrailer())
	m.keys.Close.SetEnabled(m.state.TrailerVisible)
	m.keys.Clear.SetEnabled(len(m.state.RecentlyViewed) > 0)
	if n := len(visibleCards(m.state, m.cardsPerRow())); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) fetchDone(err error) {
	if m.loading > 0 {
		m.loading--
	}
	switch {
	case err == nil:
		m.err = nil
	case errors.Is(err, browser.ErrStale), errors.Is(err, context.Canceled):
	default:
		m.err = err
	}
	m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		m.fetchDone(msg.err)
		if msg.err == nil {
			m.cursor = 0
			if n := len(m.state.Results); n == 0 {
				m.status = "No movies found"
			} else {
				m.status = fmt.Sprintf("%d movies", n)
			}
		}
		return m, nil

	case movieLoadedMsg:
		m.fetchDone(msg.err)
		return m, nil

	case trailerClosedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("player exited with error")
			m.err = fmt.Errorf("playback failed: %w", msg.err)
		}
		if m.player.Name() != "browser" || msg.err != nil {
			m.mgr.CloseTrailer()
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.searching = false
		m.input.Blur()
		return m, m.search(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.status = ""
		m.input.SetValue(m.state.SearchQuery)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Prev):
		m.mgr.AdvanceCarousel(browser.Previous)
		m.refresh()

	case key.Matches(msg, m.keys.Next):
		m.mgr.AdvanceCarousel(browser.Next)
		m.refresh()

	case key.Matches(msg, m.keys.Cycle):
		n := len(visibleCards(m.state, m.cardsPerRow()))
		if n > 0 {
			if msg.String() == "shift+tab" {
				m.cursor = (m.cursor - 1 + n) % n
			} else {
				m.cursor = (m.cursor + 1) % n
			}
		}

	case key.Matches(msg, m.keys.Submit):
		cards := visibleCards(m.state, m.cardsPerRow())
		if m.cursor < len(cards) {
			return m, m.selectMovie(cards[m.cursor])
		}

	case key.Matches(msg, m.keys.Play):
		return m, m.playTrailer()

	case key.Matches(msg, m.keys.Close):
		m.mgr.CloseTrailer()
		m.refresh()

	case key.Matches(msg, m.keys.Clear):
		if err := m.mgr.ClearRecentlyViewed(); err != nil {
			m.err = err
		}
		m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// cardsPerRow is how many carousel cards fit the terminal width.
func (m Model) cardsPerRow() int {
	n := (m.width - 4) / (cardWidth + 2)
	return min(max(n, 1), 6)
}

// visibleCards maps the carousel offset onto the result list: the window
// starts offset cards in, or at the last card when the offset runs past it.
func visibleCards(s browser.State, perRow int) []media.MovieSummary {
	if len(s.Results) == 0 {
		return nil
	}
	start := min(s.CarouselOffset, len(s.Results)-1)
	end := min(start+perRow, len(s.Results))
	return s.Results[start:end]
}

// canAdvance reports whether moving the carousel forward would bring a new
// card into view.
func canAdvance(s browser.State, perRow int) bool {
	if s.CarouselOffset >= browser.MaxCarouselOffset {
		return false
	}
	return s.CarouselOffset+perRow < len(s.Results)
}
