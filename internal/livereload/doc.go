// Package livereload reloads open browser tabs in development when a
// template or static asset changes on disk.
//
// A Watcher observes directories with fsnotify and calls Reloader.BroadcastReload,
// which pushes "reload" to every websocket client. Inject adds the small
// client script to HTML responses.
package livereload
