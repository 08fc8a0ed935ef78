// Package platform contains filesystem and URL helpers shared by the engines and the
// web surface: output directory handling, locating files written by an engine,
// cookie file inspection and video/playlist URL parsing.
package platform
