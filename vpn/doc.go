// Package vpn provides tunnel management functionality for WireGuard Manager.
//
// This package implements the core tunnel functionality including:
//
//   - Tunnel management: importing, editing, exporting and removing configs
//   - Activation: classifying a tunnel's live state and bringing it up or down
//   - Routing: keeping attached routing scripts consistent on load and edit
//   - Monitoring: noticing tunnels started or stopped outside the manager
//
// # Architecture
//
// The package is organized around four main types:
//
//   - ExecRunner: runs wg(8) and wg-quick(8) with a hard timeout
//   - Controller: the activation state machine on top of a Runner
//   - Manager: owns the tunnel list and the config files behind it
//   - Monitor: polls every tunnel's state on an interval
//
// # Activation Flow
//
// A typical toggle:
//
//  1. Manager.Toggle looks up the tunnel and hands its config to the Controller
//  2. Controller.State runs "wg show" and reads the link flags over netlink
//  3. An inactive tunnel has its endpoints and required fields checked
//  4. wg-quick runs "up" or "down"; a link that is down is reset first
//  5. Manager records the new activation flag only if the command succeeded
//
// # Thread Safety
//
// Manager and Monitor are safe for concurrent use. Controller calls for the
// same tunnel must not overlap.
package vpn
