// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import "errors"

// ErrInvalidConfig is returned by NewWorldWithConfig when a Config value
// carries a non-positive fixed_timestep, cell_size, or sector_size. Invalid
// configuration is rejected at construction; nothing else in the core
// returns an error, per the command surface's soft-fail-on-unknown-id
// contract.
var ErrInvalidConfig = errors.New("tacticalsim: invalid config")
