// SPDX-License-Identifier: Apache-2.0

// Package app implements the qthena command-line runtime.
//
// It wires the client manager, command runner, batch workers and the optional
// execution history store into a single process lifecycle, dispatches the
// run and history subcommands, and renders their output as a table, CSV or
// JSON.
package app
