// Package audio plays raw speech audio through the system output device
// using oto/v3.
//
// All audio handled here is 16-bit signed little-endian mono PCM at
// SampleRate. Play blocks until the clip has been heard so callers can
// sequence clips by calling it serially.
package audio
