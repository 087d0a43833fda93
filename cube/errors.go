// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cube

import "errors"

// ErrMaxLevelExceeded is returned when subdivision is requested at
// coordinate.MaxLevel.
var ErrMaxLevelExceeded = errors.New("max level exceeded")
