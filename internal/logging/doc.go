// Package logger provides leveled logging for Tōtara CLI commands.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows all messages including debug details
//
// Without flags, only user-facing warnings and errors are shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Shown with --verbose or --debug
//	Logger.WarnfUser()       // Always shown (user-facing warnings)
//	Logger.Errorf()          // Always shown
//	Logger.ErrorfAndReturn() // Errorf plus an error value to propagate
//
// Commands create a logger in the root command's PersistentPreRun and keep
// it in the cmd package for the duration of the invocation.
package logger
