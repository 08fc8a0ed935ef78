package model

import (
	"errors"
	"testing"
)

func TestPlaylist_Counters(t *testing.T) {
	p := NewPlaylist("https://youtube.com/playlist?list=PL1")
	if p.Status != PlaylistStatusListing {
		t.Fatalf("Expected listing status, got %s", p.Status)
	}

	p.AddVideo(&PlaylistVideo{ID: "a"})
	p.AddVideo(&PlaylistVideo{ID: "b"})
	p.AddVideo(&PlaylistVideo{ID: "c"})

	if p.TotalVideos != 3 {
		t.Fatalf("Expected 3 videos, got %d", p.TotalVideos)
	}
	if p.Videos[2].Index != 3 {
		t.Errorf("Expected 1-based index 3, got %d", p.Videos[2].Index)
	}

	p.UpdateVideoProgress("a", 0.5)
	if p.Video("a").Status != VideoStatusDownloading {
		t.Errorf("Expected downloading status for a")
	}

	p.MarkVideoCompleted("a", "/tmp/a.mp4")
	p.MarkVideoCompleted("a", "/tmp/a.mp4")
	p.MarkVideoFailed("b", errors.New("private video"))

	if p.Downloaded != 1 {
		t.Errorf("Expected 1 downloaded, got %d", p.Downloaded)
	}
	if p.Failed != 1 || !p.HasErrors() {
		t.Errorf("Expected 1 failure, got %d", p.Failed)
	}
	if p.Video("b").Error != "private video" {
		t.Errorf("Expected error text on b, got %q", p.Video("b").Error)
	}
	if len(p.PendingVideos()) != 1 {
		t.Errorf("Expected 1 pending video, got %d", len(p.PendingVideos()))
	}

	got := p.DownloadProgress()
	if got < 0.66 || got > 0.67 {
		t.Errorf("Expected progress ~0.667, got %v", got)
	}
}

func TestPlaylist_EmptyProgress(t *testing.T) {
	p := NewPlaylist("https://youtube.com/playlist?list=PL2")
	if p.DownloadProgress() != 0 {
		t.Errorf("Expected zero progress for empty playlist")
	}
	if p.Video("missing") != nil {
		t.Errorf("Expected nil for unknown video")
	}
}
