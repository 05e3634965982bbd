package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/wpvol/internal/streamprops"
)

// ErrEmptyAppName is returned for a request without an app name.
var ErrEmptyAppName = errors.New("app_name must not be empty")

// Messages reported back to the caller.
const (
	MessageUnchanged = "The item was already in the desired state"
	messageChanged   = "The channel volume for %q has been set"
)

// Request asks for every channel of an application's stream to sit at Volume.
type Request struct {
	AppName string  `json:"app_name"`
	Volume  float64 `json:"volume"`
	// Description documents the request; it is recorded but not applied.
	Description string `json:"description,omitempty"`
}

// Validate checks the request before any file is touched.
func (r Request) Validate() error {
	if r.AppName == "" {
		return ErrEmptyAppName
	}
	return streamprops.CheckVolume(r.Volume)
}

// Result is the outcome of one request.
type Result struct {
	AppName string  `json:"app_name"`
	Volume  float64 `json:"volume"`
	Changed bool    `json:"changed"`
	Message string  `json:"message"`
	RunID   string  `json:"run_id"`
	DryRun  bool    `json:"dry_run,omitempty"`
}

func resultMessage(appName string, changed bool) string {
	if changed {
		return fmt.Sprintf(messageChanged, appName)
	}
	return MessageUnchanged
}
