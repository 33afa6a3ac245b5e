// Package engine generates a plausible one-day building schedule by
// stochastic constraint satisfaction: meetings are sampled from per-room
// probability models, drafted into random windows, repaired and resolved
// against room and employee availability with a bounded retry cap, and the
// remaining gaps in every employee's day become office occupancy. There is
// no optimization; conflicting drafts are independently resampled up to the
// cap and then dropped or cancelled depending on policy.
package engine
