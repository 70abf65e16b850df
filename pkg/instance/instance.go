package instance

import "os"

// GetID identifies the running process in logs. DYNO wins over HOSTNAME.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
