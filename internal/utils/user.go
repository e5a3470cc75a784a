package utils

import (
	"math/rand/v2"
)

var defaultAvatars = []string{"🌱", "🌿", "🍃", "🌾", "🎋", "🌲", "🌳", "🐼", "🦊", "🐨", "🐸", "✨"}

// GetRandomEmoji returns a random emoji used as the default avatar.
func GetRandomEmoji() string {
	return defaultAvatars[rand.IntN(len(defaultAvatars))]
}

// GetCommonEmojis returns the avatars offered to new users.
func GetCommonEmojis() []string {
	out := make([]string, len(defaultAvatars))
	copy(out, defaultAvatars)
	return out
}
