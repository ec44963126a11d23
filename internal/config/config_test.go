package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchListValidate(t *testing.T) {
	conf := &WatchListConfig{
		Labels:        []string{"person"},
		MinConfidence: 75,
	}
	assert.NoError(t, conf.Validate())

	conf.NotifyPhone = "+15550100"
	err := conf.Validate()
	assert.ErrorContains(t, err, "smsEndpoint")

	conf.SMSEndpoint = "http://localhost:8090"
	assert.NoError(t, conf.Validate())

	// Topic-only alerting needs no SMS gateway.
	conf = &WatchListConfig{NotifyTopic: "alerts"}
	assert.NoError(t, conf.Validate())
}

func TestLocation(t *testing.T) {
	loc, err := Location("US/Pacific")
	assert.NoError(t, err)
	assert.NotNil(t, loc)

	_, err = Location("")
	assert.Error(t, err)

	_, err = Location("Mars/Olympus")
	assert.Error(t, err)
}
