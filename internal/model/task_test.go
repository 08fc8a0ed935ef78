package model

import (
	"errors"
	"testing"
	"time"
)

func TestDownloadTask_DisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		path     string
		url      string
		expected string
	}{
		{"Video Title", "", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"", "/tmp/downloads/My_Clip.mp4", "https://youtube.com/watch?v=123", "My_Clip"},
		{"", `C:\Users\me\Clip.m4a`, "https://youtube.com/watch?v=123", "Clip"},
		{"https://youtube.com/watch?v=456", "", "https://youtube.com/watch?v=456", "https://youtube.com/watch?v=456"},
	}

	for _, test := range tests {
		task := &DownloadTask{Title: test.title, OutputPath: test.path, URL: test.url}
		result := task.DisplayTitle()
		if result != test.expected {
			t.Errorf("DisplayTitle() with title=%q path=%q = %q, expected %q",
				test.title, test.path, result, test.expected)
		}
	}
}

func TestDownloadTask_Lifecycle(t *testing.T) {
	task := NewDownloadTask("id-1", "https://youtube.com/watch?v=test", Quality720)
	if task.Status != TaskStatusPending {
		t.Fatalf("Expected pending status, got %s", task.Status)
	}

	task.Start()
	if task.Status != TaskStatusStarting || task.StartedAt.IsZero() {
		t.Fatalf("Expected starting status with start time, got %s", task.Status)
	}

	task.UpdateProgress(50, 200, 0.25)
	if task.Status != TaskStatusDownloading {
		t.Errorf("Expected downloading status, got %s", task.Status)
	}
	if task.Percent() != 25 {
		t.Errorf("Expected 25 percent, got %d", task.Percent())
	}

	task.Complete("/tmp/clip.mp4")
	if task.Status != TaskStatusCompleted || task.Progress != 1 {
		t.Errorf("Expected completed with full progress, got %s %v", task.Status, task.Progress)
	}
	if task.Elapsed() < 0 {
		t.Errorf("Expected non-negative elapsed time, got %v", task.Elapsed())
	}
	if task.StatusLine() != "completed clip" {
		t.Errorf("Unexpected status line %q", task.StatusLine())
	}
}

func TestDownloadTask_Fail(t *testing.T) {
	task := NewDownloadTask("id-2", "https://youtube.com/watch?v=x", QualityBest)
	task.Start()
	task.Fail(errors.New("engine exited"))

	if task.Status != TaskStatusError {
		t.Errorf("Expected error status, got %s", task.Status)
	}
	if task.LastError != "engine exited" {
		t.Errorf("Expected last error to be recorded, got %q", task.LastError)
	}
	if task.StatusLine() != "error: engine exited" {
		t.Errorf("Unexpected status line %q", task.StatusLine())
	}
}

func TestDownloadTask_ElapsedNotStarted(t *testing.T) {
	task := &DownloadTask{}
	if task.Elapsed() != 0 {
		t.Errorf("Expected zero elapsed for unstarted task")
	}

	start := time.Now().Add(-2 * time.Second)
	task = &DownloadTask{StartedAt: start, FinishedAt: start.Add(time.Second)}
	if task.Elapsed() != time.Second {
		t.Errorf("Expected 1s elapsed, got %v", task.Elapsed())
	}
}

func TestEstimateETA(t *testing.T) {
	tests := []struct {
		elapsed  time.Duration
		fraction float64
		expected int
	}{
		{10 * time.Second, 0.5, 10},
		{10 * time.Second, 0.25, 30},
		{time.Minute, 0.75, 20},
		{10 * time.Second, 0, -1},
		{0, 0.5, -1},
		{10 * time.Second, 1, 0},
	}

	for _, test := range tests {
		if got := EstimateETA(test.elapsed, test.fraction); got != test.expected {
			t.Errorf("EstimateETA(%v, %v) = %d, expected %d", test.elapsed, test.fraction, got, test.expected)
		}
	}
}

func TestDownloadTask_ETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "-"},
		{0, "-"},
		{65, "01:05"},
		{3725, "01:02:05"},
	}

	for _, test := range tests {
		task := &DownloadTask{ETASec: test.etaSec}
		if got := task.ETAString(); got != test.expected {
			t.Errorf("ETAString() with ETASec=%d = %s, expected %s", test.etaSec, got, test.expected)
		}
	}
}

func TestDownloadTask_StatusLineWithETA(t *testing.T) {
	task := &DownloadTask{Title: "Talk", Status: TaskStatusDownloading, Progress: 0.5, ETASec: 65}
	if got := task.StatusLine(); got != "50.0% downloading Talk, ETA 01:05" {
		t.Errorf("Unexpected status line %q", got)
	}

	task.UpdateProcessing(0.25)
	if task.ETASec != -1 {
		t.Errorf("Expected unknown ETA while processing, got %d", task.ETASec)
	}
	if got := task.StatusLine(); got != "25.0% processing Talk" {
		t.Errorf("Unexpected status line %q", got)
	}
}

func TestDownloadTask_UpdateProgressEstimatesETA(t *testing.T) {
	task := NewDownloadTask("id-3", "https://youtu.be/x", QualityBest)
	if task.ETASec != -1 {
		t.Fatalf("Expected unknown ETA for a new task, got %d", task.ETASec)
	}

	task.StartedAt = time.Now().Add(-10 * time.Second)
	task.UpdateProgress(50, 100, 0.5)
	if task.ETASec < 9 || task.ETASec > 11 {
		t.Errorf("Expected about 10s ETA, got %d", task.ETASec)
	}
}
