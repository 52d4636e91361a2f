package darwin

import (
	"strings"
	"testing"

	"github.com/mj1618/exportbot/internal/model"
)

func TestKeyScript(t *testing.T) {
	tests := []struct {
		keys    []string
		want    string
		wantErr bool
	}{
		{keys: []string{"tab"}, want: `tell application "System Events" to key code 48`},
		{keys: []string{"alt", "f"}, want: `tell application "System Events" to keystroke "f" using {option down}`},
		{keys: []string{"ctrl", "v"}, want: `tell application "System Events" to keystroke "v" using {control down}`},
		{keys: []string{"cmd", "v"}, want: `tell application "System Events" to keystroke "v" using {command down}`},
		{keys: []string{"ctrl", "shift", "down"}, want: `tell application "System Events" to key code 125 using {control down, shift down}`},
		{keys: []string{"f", "v"}, wantErr: true},
		{keys: []string{"alt"}, wantErr: true},
		{keys: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, "+"), func(t *testing.T) {
			got, err := keyScript(tt.keys)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("keyScript(%v) = %q, want error", tt.keys, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("keyScript(%v): %v", tt.keys, err)
			}
			if got != tt.want {
				t.Errorf("keyScript(%v) = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestParseWindowLines(t *testing.T) {
	out := "412\tHZ-ANA - run1\n88\tFinder\r\nbad line\nx\tNo pid\n90\t \n"
	got := parseWindowLines(out)
	want := []model.Window{
		{ID: 1, Title: "HZ-ANA - run1", PID: 412},
		{ID: 2, Title: "Finder", PID: 88},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d windows, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDialogScript(t *testing.T) {
	s := dialogScript("caution", "Cancel", "OK")
	for _, part := range []string{`buttons {"Cancel", "OK"}`, `default button "OK"`, "with icon caution", "item 2 of argv"} {
		if !strings.Contains(s, part) {
			t.Errorf("dialog script missing %q:\n%s", part, s)
		}
	}
}

func TestSplitPaths(t *testing.T) {
	got := splitPaths("/a/b.mdp\n\n  /c d/e.mdp  \n")
	if len(got) != 2 || got[0] != "/a/b.mdp" || got[1] != "/c d/e.mdp" {
		t.Errorf("splitPaths = %q", got)
	}
}
