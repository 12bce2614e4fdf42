package store

import "time"

// GetTyped reads the entry for key as a value of type T. Returns the zero
// value and false when the entry is missing, expired, or not valid JSON
// for T.
func GetTyped[T any](s *Store, key string) (T, time.Duration, bool) {
	var v T
	age, ok := s.Get(key, &v)
	if !ok {
		var zero T
		return zero, 0, false
	}
	return v, age, true
}

// PutString stores a plain string value that never expires. Used for the
// persisted state keys.
func (s *Store) PutString(key, value string) error {
	return s.Put(key, value, 0)
}

// GetString reads a plain string value.
func (s *Store) GetString(key string) (string, bool) {
	var v string
	_, ok := s.Get(key, &v)
	return v, ok
}
