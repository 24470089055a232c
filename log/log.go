// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package log re-exports erigon-lib's structured logger so every
// package in this module imports one local path instead of reaching
// into the upstream module directly, matching how erigon's own
// subpackages consume log/v3 through a single import.
package log

import (
	log3 "github.com/erigontech/erigon-lib/log/v3"
)

// Logger is the structured, leveled logging interface every component
// accepts instead of depending on a concrete sink.
type Logger = log3.Logger

// New builds a Logger with no bound context, same as log3.New().
func New(ctx ...interface{}) Logger { return log3.New(ctx...) }

// Root returns the process-wide default Logger.
func Root() Logger { return log3.Root() }
