// Package settings implements the lobby settings capability of the
// DeathNote tool: typed setting definitions grouped into bins, current
// values with validation, reset semantics, and change notifications.
//
// # Bins
//
// Every setting belongs to exactly one bin. Bins render in a fixed order:
//
//   - Lobby: match-making and room options
//   - Player: per-player role options
//   - Gameplay: in-game pacing and progress options
//
// # Values
//
// A setting's value always exists: it is the definition default until
// Update replaces it. Reads of unknown keys return (zero, false); only
// mutations of unknown keys or invalid values produce errors, and those
// use the package sentinels (ErrUnknownKey, ErrInvalidValue) wrapped
// with %w.
//
// # Usage
//
//	store := settings.NewInMemoryStore(settings.StoreOptions{})
//
//	if err := store.Update("dayNightSeconds", 60); err != nil { ... }
//	v, ok := store.Value("dayNightSeconds")
//
//	unsub := store.OnChange(func(ev settings.ChangeEvent) {
//	    // react to updates and resets
//	})
//	defer unsub()
//
// # Definition files
//
// The built-in catalog can be replaced or extended with a YAML definitions
// file (see Load), and a Watcher can reload the file on change.
package settings
