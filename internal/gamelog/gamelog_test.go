package gamelog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  Event
		noise bool
	}{
		{
			name: "player chat",
			body: "[12:01:02] [Server thread/INFO]: <qrush> anyone seen my pickaxe?",
			want: PlayerChat{Speaker: "qrush", Text: "anyone seen my pickaxe?"},
		},
		{
			name: "death notice",
			body: "[12:01:02] [Server thread/INFO]: cobyr was slain by Zombie",
			want: ServerNotice{Text: "cobyr was slain by Zombie"},
		},
		{
			name:  "join is noise",
			body:  "[12:01:02] [Server thread/INFO]: ravenx99 joined the game",
			want:  ServerNotice{Text: "ravenx99 joined the game"},
			noise: true,
		},
		{
			name: "notice stops at first digit",
			body: "[12:01:02] [Server thread/INFO]: Saving chunks for level 1",
			want: ServerNotice{Text: "Saving chunks for level "},
		},
		{
			name:  "unrelated",
			body:  "[12:01:02] [User Authenticator #1/INFO]: UUID of player qrush is 1234",
			want:  nil,
			noise: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.body)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			if IsNoise(got) != tt.noise {
				t.Errorf("IsNoise() = %v, want %v", IsNoise(got), tt.noise)
			}
		})
	}
}
