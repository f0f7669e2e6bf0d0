// Package desktop is the typed client for the desktop environment: the
// GNOME settings service (shell favorites and custom keybinding slots via
// gsettings), launcher file lookup across the system-wide and personal
// application directories, and the MIME association file.
//
// The favorites and keybinding subsystems target this one desktop-settings
// service by contract, not as a portability abstraction.
package desktop
