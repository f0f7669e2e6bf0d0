// Package feature defines the data model of the installer: a feature is a
// named, independently installable unit of customization described by an
// attribute bundle. The bundle is externally supplied data; this package
// turns it into a typed Descriptor so the engine dispatches on explicit
// optional fields instead of attribute-name string matching.
package feature
