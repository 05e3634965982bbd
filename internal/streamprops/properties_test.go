package streamprops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// levels builds computed levels from floats.
func levels(fs ...float64) []Level {
	out := make([]Level, len(fs))
	for i, f := range fs {
		out[i] = LevelOf(f)
	}
	return out
}

// floats returns the numeric values of ls.
func floats(ls []Level) []float64 {
	out := make([]float64, len(ls))
	for i, l := range ls {
		out[i] = l.Float64()
	}
	return out
}

func TestFormatLevel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.0, "1.0"},
		{0.0, "0.0"},
		{0.3, "0.3"},
		{0.25, "0.25"},
		{0.5001, "0.5001"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1000000.0, "1000000.0"},
		{123456789012345.6, "123456789012345.6"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{1.5e20, "1.5e+20"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatLevel(tt.in))
		})
	}
}

func TestDecodeProperties(t *testing.T) {
	props, err := DecodeProperties(`{"volume":0.8,"mute":true,"channelMap":["FL","FR"],"channelVolumes":[0.5,0.6]}`)
	require.NoError(t, err)

	assert.Equal(t, 0.8, props.Volume.Float64())
	assert.True(t, props.Mute)
	assert.Equal(t, []string{"FL", "FR"}, props.ChannelMap)
	assert.Equal(t, []float64{0.5, 0.6}, floats(props.ChannelVolumes))
}

func TestDecodeProperties_AcceptsSpacedJSON(t *testing.T) {
	props, err := DecodeProperties(`{"volume": 1.0, "mute": false, "channelMap": ["FL", "FR"], "channelVolumes": [1.0, 1.0]}`)
	require.NoError(t, err)

	out, err := props.Encode()
	require.NoError(t, err)
	want, err := DefaultProperties().Encode()
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestDecodeProperties_KeepsNumberText(t *testing.T) {
	tests := []string{
		`{"volume":1,"mute":false,"channelMap":["FL","FR"],"channelVolumes":[1,0]}`,
		`{"volume":1000000.0,"mute":false,"channelMap":["MONO"],"channelVolumes":[0.5]}`,
		`{"volume":1.0,"mute":true,"channelMap":["FL","FR"],"channelVolumes":[1E-5,0.50]}`,
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			props, err := DecodeProperties(in)
			require.NoError(t, err)

			out, err := props.Encode()
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestLevel_ComputedValueDropsSourceText(t *testing.T) {
	props, err := DecodeProperties(`{"volume":1,"mute":false,"channelMap":["FL","FR"],"channelVolumes":[1,1]}`)
	require.NoError(t, err)

	props.ChannelVolumes[1] = LevelOf(0.5)
	out, err := props.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"volume":1,"mute":false,"channelMap":["FL","FR"],"channelVolumes":[1,0.5]}`, out)
}

func TestDecodeProperties_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `volume=1`},
		{"missing volume", `{"mute":false,"channelMap":[],"channelVolumes":[]}`},
		{"missing mute", `{"volume":1.0,"channelMap":[],"channelVolumes":[]}`},
		{"missing channelMap", `{"volume":1.0,"mute":false,"channelVolumes":[]}`},
		{"missing channelVolumes", `{"volume":1.0,"mute":false,"channelMap":[]}`},
		{"null channelMap", `{"volume":1.0,"mute":false,"channelMap":null,"channelVolumes":[]}`},
		{"unknown key", `{"volume":1.0,"mute":false,"channelMap":[],"channelVolumes":[],"balance":0}`},
		{"trailing data", `{"volume":1.0,"mute":false,"channelMap":[],"channelVolumes":[]} {}`},
		{"wrong type", `{"volume":"loud","mute":false,"channelMap":[],"channelVolumes":[]}`},
		{"numeric string", `{"volume":"0.5","mute":false,"channelMap":[],"channelVolumes":[]}`},
		{"null channel volume", `{"volume":1.0,"mute":false,"channelMap":["FL"],"channelVolumes":[null]}`},
		{"overflowing number", `{"volume":1e400,"mute":false,"channelMap":[],"channelVolumes":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProperties(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestPropertiesEncode_KeyOrderAndCompactForm(t *testing.T) {
	out, err := DefaultProperties().Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"volume":1.0,"mute":false,"channelMap":["FL","FR"],"channelVolumes":[1.0,1.0]}`, out)
}

func TestPropertiesEncode_EmptySlices(t *testing.T) {
	out, err := Properties{Volume: LevelOf(0.5)}.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"volume":0.5,"mute":false,"channelMap":[],"channelVolumes":[]}`, out)
}

func TestPropertiesEncode_NoHTMLEscaping(t *testing.T) {
	p := DefaultProperties()
	p.ChannelMap = []string{"<aux0>", "a&b"}

	out, err := p.Encode()
	require.NoError(t, err)
	assert.Contains(t, out, `["<aux0>","a&b"]`)
}
