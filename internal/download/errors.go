package download

import "errors"

// Generic failures reported to the user. The underlying engine cause is only logged.
var (
	ErrLookupFailed   = errors.New("could not fetch video information")
	ErrDownloadFailed = errors.New("download failed")
	ErrPlaylistFailed = errors.New("could not fetch playlist")
)
