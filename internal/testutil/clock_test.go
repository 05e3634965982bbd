package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewFixedClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now(), "Now does not advance on its own")

	c.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), c.Now())
}

func TestStateFile(t *testing.T) {
	got := StateFile(Line("Music Player", "0.5"))

	assert.Equal(t, "[stream-properties]\n"+
		`Output/Audio:application.name:Music\sPlayer={"volume":1.0,"mute":false,"channelMap":["FL","FR"],"channelVolumes":[0.5,0.5]}`+"\n", got)
}
