package player

import (
	"context"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mpv", "mpv"},
		{"vlc", "vlc"},
		{"iina", "iina"},
		{"celluloid", "celluloid"},
		{"browser", "browser"},
		{"unknown", "mpv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.name).Name(); got != tt.want {
				t.Errorf("New(%q).Name() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestCommandRejectsUnsafeKey(t *testing.T) {
	for _, name := range []string{"mpv", "vlc", "iina", "browser"} {
		t.Run(name, func(t *testing.T) {
			_, err := New(name).Command(context.Background(), Video{Key: "--script=/tmp/x.lua"}, DefaultOptions(640, 360))
			if err == nil {
				t.Error("expected unsafe key to be rejected")
			}
		})
	}
}

func TestMPVArgs(t *testing.T) {
	cmd, err := (&MPV{}).Command(context.Background(), Video{Key: "YoHD9XEInc0", Title: "Inception"}, DefaultOptions(1280, 720))
	if err != nil {
		t.Fatalf("Command() error: %v", err)
	}

	want := []string{
		"mpv",
		"https://www.youtube.com/watch?v=YoHD9XEInc0",
		"--force-media-title=Inception",
		"--really-quiet",
		"--no-osc",
		"--geometry=1280x720",
	}
	if strings.Join(cmd.Args, " ") != strings.Join(want, " ") {
		t.Errorf("args = %q, want %q", cmd.Args, want)
	}
}

func TestMPVArgsWithControls(t *testing.T) {
	args := mpvArgs(Video{Key: "abc"}, Options{Autoplay: false, Controls: true})
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "--no-osc") {
		t.Error("controls requested but --no-osc present")
	}
	if !strings.Contains(joined, "--pause") {
		t.Error("autoplay disabled but --pause missing")
	}
	if strings.Contains(joined, "--geometry") {
		t.Error("zero size should not set geometry")
	}
}

func TestVLCArgs(t *testing.T) {
	cmd, err := (&VLC{}).Command(context.Background(), Video{Key: "YoHD9XEInc0", Title: "Inception"}, DefaultOptions(640, 360))
	if err != nil {
		t.Fatalf("Command() error: %v", err)
	}

	joined := strings.Join(cmd.Args, " ")
	for _, want := range []string{"--meta-title Inception", "--play-and-exit", "--qt-minimal-view", "--width=640", "--height=360"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", cmd.Args, want)
		}
	}
}

func TestTitleIsSingleArgument(t *testing.T) {
	title := "'; rm -rf / #"
	cmd, err := (&MPV{}).Command(context.Background(), Video{Key: "abc", Title: title}, DefaultOptions(0, 0))
	if err != nil {
		t.Fatalf("Command() error: %v", err)
	}
	if cmd.Args[2] != "--force-media-title="+title {
		t.Errorf("title arg = %q", cmd.Args[2])
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"xdg-open", "https://www.youtube.com/embed/abc?autoplay=1&controls=0"}},
		{"darwin", []string{"open", "https://www.youtube.com/embed/abc?autoplay=1&controls=0"}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", "https://www.youtube.com/embed/abc?autoplay=1&controls=0"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			b := &Browser{goos: tt.goos}
			cmd, err := b.Command(context.Background(), Video{Key: "abc"}, DefaultOptions(640, 360))
			if err != nil {
				t.Fatalf("Command() error: %v", err)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.want, " ") {
				t.Errorf("args = %q, want %q", cmd.Args, tt.want)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	got := EmbedURL("abc", Options{Autoplay: false, Controls: true})
	if got != "https://www.youtube.com/embed/abc?autoplay=0&controls=1" {
		t.Errorf("EmbedURL() = %q", got)
	}
}
