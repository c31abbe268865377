// File: utils/constants.go
package utils

import "time"

// SessionKeyPrefix is the prefix used for Redis call session keys.
const SessionKeyPrefix = "call:session:"

// SessionLockPrefix is the prefix used for per-call turn lock keys.
const SessionLockPrefix = "call:lock:"

// TurnLockTTL bounds how long a single turn may hold the per-call lock.
const TurnLockTTL = 15 * time.Second
