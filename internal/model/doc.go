// Package model defines the ephemeral records exchanged between the web surface
// and the download service: video metadata, download requests, quality tiers,
// playlist entities and status enums, plus the display formatting helpers.
package model
