// Package streamprops models the WirePlumber stream-properties state file.
//
// The file is line oriented:
//
//	[stream-properties]
//	Output/Audio:application.name:firefox={"volume":1.0,"mute":false,"channelMap":["FL","FR"],"channelVolumes":[1.0,1.0]}
//	Audio/Sink:node.name:alsa_output.pci\s0.analog-stereo={"volume":0.8,...}
//
// Each data line is <Category>:<SelectionProperty>:<EscapedPattern>=<JSON>.
// Literal spaces in the pattern are written as the two characters `\s`.
//
// # Ordering
//
// A Store keeps entries in first-seen order and appends new ones at the end.
// Render emits them in exactly that order; this is the persistence contract.
//
// # Lossy parts
//
//   - Comment lines (leading '#') and blank lines are dropped on parse.
//   - Property JSON is re-encoded in compact form with keys in the order
//     volume, mute, channelMap, channelVolumes.
//
// Numbers keep the literal text they were read with (1 stays 1, 1.0 stays
// 1.0); only levels written by SetChannelVolume are formatted anew. A file
// without comments written in the compact form round-trips byte for byte
// through Parse and Render.
package streamprops
