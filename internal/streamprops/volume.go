package streamprops

// SetVolumeForApp ensures every channel of the entry keyed by pattern is at
// volume, creating a default Output/Audio entry when none exists.
//
// It reports true when an entry was created or when any channel moved by
// more than VolumeTolerance. A created entry stays in the Store even if the
// volume turns out to be out of range.
func (s *Store) SetVolumeForApp(pattern string, volume float64) (bool, error) {
	created := false
	entry, ok := s.Lookup(pattern)
	if !ok {
		entry = NewDefaultOutputAudio(EscapePattern(pattern))
		s.Upsert(pattern, entry)
		created = true
	}

	changed, err := entry.SetChannelVolume(volume)
	if err != nil {
		return false, err
	}
	if changed {
		return true, nil
	}
	return created, nil
}
