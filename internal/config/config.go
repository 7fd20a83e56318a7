package config

import "github.com/spf13/viper"

// Configuration keys and their defaults.
const (
	defaultStorePath   = "$HOME/.local/share/triage/keywords.json"
	defaultMirrorPath  = "$HOME/.local/share/triage/keywords_gen.go"
	defaultJournalPath = "$HOME/.local/share/triage/journal.db"
	defaultServerAddr  = ":8484"
)

// SetDefaults registers the engine's default settings with viper.
func SetDefaults() {
	viper.SetDefault("vocabulary.path", defaultStorePath)
	viper.SetDefault("vocabulary.mirror_path", defaultMirrorPath)
	viper.SetDefault("vocabulary.maintainer", "")
	viper.SetDefault("vocabulary.watch", false)
	viper.SetDefault("journal.enabled", true)
	viper.SetDefault("journal.path", defaultJournalPath)
	viper.SetDefault("server.addr", defaultServerAddr)
}

// StorePath returns the durable vocabulary snapshot location.
func StorePath() string {
	return ExpandPath(viper.GetString("vocabulary.path"))
}

// MirrorPath returns the generated mirror location.
func MirrorPath() string {
	return ExpandPath(viper.GetString("vocabulary.mirror_path"))
}

// Maintainer returns the maintainer name stamped into snapshots.
func Maintainer() string {
	return viper.GetString("vocabulary.maintainer")
}

// WatchStore reports whether the snapshot file watcher is enabled.
func WatchStore() bool {
	return viper.GetBool("vocabulary.watch")
}

// JournalEnabled reports whether mutations are journaled.
func JournalEnabled() bool {
	return viper.GetBool("journal.enabled")
}

// JournalPath returns the mutation journal location.
func JournalPath() string {
	return ExpandPath(viper.GetString("journal.path"))
}

// ServerAddr returns the admin server listen address.
func ServerAddr() string {
	return viper.GetString("server.addr")
}
