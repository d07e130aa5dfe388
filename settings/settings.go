package settings

import "strconv"

// Store is the flat settings bag shared by the player service and the account controllers.
// Keys are dotted names such as "mopidyip" or "spotify.usegeneral".
type Store interface {
	Get(key, defaultValue string) string
	Set(key, value string) error
	Delete(key string) error
	All() map[string]string
}

func GetBool(store Store, key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(store.Get(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func SetBool(store Store, key string, value bool) error {
	return store.Set(key, strconv.FormatBool(value))
}
