package store

var seededKey = []byte("meta:seeded")

// Seeded reports whether demo fixtures have already been written.
func (s *Store) Seeded() (bool, error) {
	return s.exists(seededKey)
}

// MarkSeeded records that demo fixtures have been written so later
// startups skip seeding.
func (s *Store) MarkSeeded() error {
	return s.set(seededKey, []byte("1"))
}
