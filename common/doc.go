// Package common provides shared constants, types, utilities, and interfaces
// used throughout the WireGuard Manager application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: default paths, tool names, and timeouts
//   - Errors: sentinel errors and the typed error taxonomy (FormatError,
//     ScriptError, ReconciliationError, ActivationError)
//   - Interfaces: the Runner abstraction for bounded external commands
//   - Logger: levelled logging on top of logrus with stdout, syslog and
//     rotating file outputs
//   - Utils: small helpers for file and slice handling
//
// # Usage
//
//	import "github.com/yllada/wg-manager/common"
//
//	common.LogInfo("Bringing up tunnel %s", name)
//
//	var fe *common.FormatError
//	if errors.As(err, &fe) {
//	    fmt.Println("bad line", fe.Line)
//	}
package common
