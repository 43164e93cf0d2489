// Package services defines shared error classification for the external
// vision and speech clients and the pipeline stages that drive them.
package services
