package securestore

// Store is durable key-value storage for small secrets such as the session
// token projection. Implementations return errors instead of panicking;
// callers treat a failed Get the same as "no value stored".
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes the value stored under key. Removing a missing key is
	// not an error.
	Remove(key string) error
}
