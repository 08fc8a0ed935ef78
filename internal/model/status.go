package model

// TaskStatus represents the status of a single download call
type TaskStatus string

const (
	// TaskStatusPending means the request was accepted but the engine was not invoked yet
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusStarting means the engine call is being prepared
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means the engine reports byte progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusProcessing means the engine is remuxing the downloaded streams
	TaskStatusProcessing TaskStatus = "Processing"

	// TaskStatusCompleted means the engine call returned successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the engine call failed
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the engine call is in flight
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusDownloading || ts == TaskStatusProcessing
}

// IsFinished returns true if the task is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}
