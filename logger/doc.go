// Package logger is the structured logging facade shared by every
// long-lived component in htcore. It is intentionally small: a level, a
// set of ambient fields, and an access-log entry shape, all backed by
// github.com/sirupsen/logrus rather than hand-rolled formatting.
package logger
