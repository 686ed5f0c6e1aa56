package remote

import (
	"errors"
	"testing"

	"github.com/llehouerou/clemote/internal/protocol"
)

func TestCommands_MapToMessageTypes(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want protocol.Type
	}{
		{"play", Play{}, protocol.TypePlay},
		{"pause", Pause{}, protocol.TypePause},
		{"stop", Stop{}, protocol.TypeStop},
		{"playpause", PlayPause{}, protocol.TypePlayPause},
		{"next", Next{}, protocol.TypeNext},
		{"previous", Previous{}, protocol.TypePrevious},
		{"set volume", SetVolume{Level: 40}, protocol.TypeSetVolume},
		{"open playlist", OpenPlaylist{PlaylistID: 3}, protocol.TypeOpenPlaylist},
		{"change song", ChangeSong{PlaylistID: 3, SongIndex: 9}, protocol.TypeChangeSong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := tt.cmd.message()
			if err != nil {
				t.Fatalf("message() error = %v", err)
			}
			if msg.Type != tt.want {
				t.Errorf("message type = %q, want %q", msg.Type, tt.want)
			}
		})
	}
}

func TestSetVolume_Payload(t *testing.T) {
	msg, err := SetVolume{Level: 73}.message()
	if err != nil {
		t.Fatalf("message() error = %v", err)
	}
	if msg.SetVolume == nil || msg.SetVolume.Level != 73 {
		t.Errorf("SetVolume payload = %+v, want level 73", msg.SetVolume)
	}
}

func TestSetVolume_RejectedLocally(t *testing.T) {
	for _, level := range []int{-1, 101, 150} {
		_, err := SetVolume{Level: level}.message()
		if !errors.Is(err, ErrVolumeOutOfRange) {
			t.Errorf("SetVolume(%d) error = %v, want ErrVolumeOutOfRange", level, err)
		}
	}
}

func TestChangeSong_Payload(t *testing.T) {
	msg, err := ChangeSong{PlaylistID: 2, SongIndex: 14}.message()
	if err != nil {
		t.Fatalf("message() error = %v", err)
	}
	if msg.ChangeSong == nil || msg.ChangeSong.PlaylistID != 2 || msg.ChangeSong.SongIndex != 14 {
		t.Errorf("ChangeSong payload = %+v", msg.ChangeSong)
	}
}

func TestConnectMessage_CarriesAuthCode(t *testing.T) {
	msg := connectMessage(1234)
	if msg.Type != protocol.TypeConnect {
		t.Errorf("type = %q, want connect", msg.Type)
	}
	if msg.Connect == nil || msg.Connect.AuthCode != 1234 {
		t.Errorf("Connect payload = %+v, want auth code 1234", msg.Connect)
	}
}
